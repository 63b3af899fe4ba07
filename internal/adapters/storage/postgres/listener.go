package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
)

// changeChannel is the NOTIFY channel the host application fires when a
// map's admin/manager assignments change. The payload is the map id.
const changeChannel = "wanderer_map_changed"

// Listen turns Postgres NOTIFY events into a stream of map ids. It holds
// one dedicated connection from the pool; the returned channel closes if
// the connection dies, and the caller falls back to periodic sweeps.
func (s *PostgresStore) Listen(ctx context.Context) (<-chan int64, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire listen connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("listen on %s: %w", changeChannel, err)
	}

	ch := make(chan int64, 16)
	go func() {
		defer close(ch)
		defer conn.Release()

		for {
			notification, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					slog.Error("Change feed connection lost", "error", err)
				}
				return
			}

			mapID, err := strconv.ParseInt(notification.Payload, 10, 64)
			if err != nil {
				slog.Warn("Ignoring change notification with malformed payload", "payload", notification.Payload)
				continue
			}

			select {
			case ch <- mapID:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
