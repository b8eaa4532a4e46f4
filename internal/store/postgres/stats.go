package postgres

import (
	"context"
	"log"
	"time"

	"homs/queue-service/internal/store"
)

// Statistics are best-effort reads: on query failure they log server-side and
// return zeroed results so dashboards degrade instead of erroring.

func (s *Store) StationStatistics(ctx context.Context, stationID int64, date time.Time) (store.StationStats, error) {
	var stats store.StationStats
	row := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status IN ('done', 'completed') THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'skipped' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'waiting' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (time_started - time_in))), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (time_completed - time_in))), 0)
		FROM queue_entries
		WHERE station_id = $1 AND time_in::date = ($2)::date
	`, stationID, date)
	if err := row.Scan(&stats.Total, &stats.Completed, &stats.Skipped, &stats.Waiting, &stats.AvgWaitSeconds, &stats.AvgTurnaroundSeconds); err != nil {
		log.Printf("station statistics query failed station=%d: %v", stationID, err)
		return store.StationStats{}, nil
	}
	return stats, nil
}

func (s *Store) RangeStatistics(ctx context.Context, from, to time.Time) (store.StationStats, error) {
	var stats store.StationStats
	row := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status IN ('done', 'completed') THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'skipped' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'waiting' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (time_started - time_in))), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (time_completed - time_in))), 0)
		FROM queue_entries
		WHERE time_in::date >= ($1)::date AND time_in::date <= ($2)::date
	`, from, to)
	if err := row.Scan(&stats.Total, &stats.Completed, &stats.Skipped, &stats.Waiting, &stats.AvgWaitSeconds, &stats.AvgTurnaroundSeconds); err != nil {
		log.Printf("range statistics query failed from=%s to=%s: %v", from.Format("2006-01-02"), to.Format("2006-01-02"), err)
		return store.StationStats{}, nil
	}
	return stats, nil
}

func (s *Store) QueueTypeRollups(ctx context.Context, from, to time.Time) ([]store.QueueTypeRollup, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT queue_type,
			COUNT(*),
			COALESCE(SUM(CASE WHEN status IN ('done', 'completed') THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'skipped' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (time_started - time_in))), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (time_completed - time_in))), 0)
		FROM queue_entries
		WHERE time_in::date >= ($1)::date AND time_in::date <= ($2)::date
		GROUP BY queue_type
		ORDER BY queue_type ASC
	`, from, to)
	if err != nil {
		log.Printf("queue type rollup query failed: %v", err)
		return nil, nil
	}
	defer rows.Close()

	var rollups []store.QueueTypeRollup
	for rows.Next() {
		var rollup store.QueueTypeRollup
		if err := rows.Scan(&rollup.QueueType, &rollup.Total, &rollup.Completed, &rollup.Skipped, &rollup.AvgWaitSeconds, &rollup.AvgTurnaroundSeconds); err != nil {
			log.Printf("queue type rollup scan failed: %v", err)
			return nil, nil
		}
		rollups = append(rollups, rollup)
	}
	if err := rows.Err(); err != nil {
		log.Printf("queue type rollup rows failed: %v", err)
		return nil, nil
	}
	return rollups, nil
}

func (s *Store) StationRollups(ctx context.Context, from, to time.Time) ([]store.StationRollup, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT q.station_id, st.station_name,
			COUNT(*),
			COALESCE(SUM(CASE WHEN q.status IN ('done', 'completed') THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN q.status = 'skipped' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (q.time_started - q.time_in))), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (q.time_completed - q.time_in))), 0)
		FROM queue_entries q
		JOIN stations st ON st.station_id = q.station_id
		WHERE q.station_id IS NOT NULL
			AND q.time_in::date >= ($1)::date AND q.time_in::date <= ($2)::date
		GROUP BY q.station_id, st.station_name
		ORDER BY st.station_name ASC
	`, from, to)
	if err != nil {
		log.Printf("station rollup query failed: %v", err)
		return nil, nil
	}
	defer rows.Close()

	var rollups []store.StationRollup
	for rows.Next() {
		var rollup store.StationRollup
		if err := rows.Scan(&rollup.StationID, &rollup.StationName, &rollup.Total, &rollup.Completed, &rollup.Skipped, &rollup.AvgWaitSeconds, &rollup.AvgTurnaroundSeconds); err != nil {
			log.Printf("station rollup scan failed: %v", err)
			return nil, nil
		}
		rollups = append(rollups, rollup)
	}
	if err := rows.Err(); err != nil {
		log.Printf("station rollup rows failed: %v", err)
		return nil, nil
	}
	return rollups, nil
}
