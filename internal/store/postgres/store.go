package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"homs/queue-service/internal/models"
	"homs/queue-service/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) ListStations(ctx context.Context) ([]models.Station, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT station_id, station_name, station_type, station_number, service_id, is_active, is_open
		FROM stations
		ORDER BY is_active DESC, station_type ASC, station_name ASC, station_number ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var station models.Station
		var serviceIDNull sql.NullInt64
		if err := rows.Scan(&station.StationID, &station.StationName, &station.StationType, &station.StationNumber, &serviceIDNull, &station.IsActive, &station.IsOpen); err != nil {
			return nil, err
		}
		station.ServiceID = nullInt64Ptr(serviceIDNull)
		stations = append(stations, station)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}

func (s *Store) GetStation(ctx context.Context, stationID int64) (models.Station, bool, error) {
	var station models.Station
	var serviceIDNull sql.NullInt64
	row := s.pool.QueryRow(ctx, `
		SELECT station_id, station_name, station_type, station_number, service_id, is_active, is_open
		FROM stations
		WHERE station_id = $1
	`, stationID)
	if err := row.Scan(&station.StationID, &station.StationName, &station.StationType, &station.StationNumber, &serviceIDNull, &station.IsActive, &station.IsOpen); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Station{}, false, nil
		}
		return models.Station{}, false, err
	}
	station.ServiceID = nullInt64Ptr(serviceIDNull)
	return station, true, nil
}

func (s *Store) SetStationOpen(ctx context.Context, stationID int64, open bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE stations
		SET is_open = $1
		WHERE station_id = $2
	`, open, stationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrStationNotFound
	}
	return nil
}

func (s *Store) SetStationActive(ctx context.Context, stationID int64, active bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE stations
		SET is_active = $1
		WHERE station_id = $2
	`, active, stationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrStationNotFound
	}
	return nil
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}

func nullInt64Ptr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}

func nullStringValue(value sql.NullString) string {
	if !value.Valid {
		return ""
	}
	return value.String
}
