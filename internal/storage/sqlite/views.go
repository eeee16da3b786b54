package sqlite

import (
	"fmt"

	"github.com/ternarybob/scribo/pkg/config"
)

// installViews creates every configured view. CREATE VIEW IF NOT EXISTS
// makes the whole pass idempotent, and the views live in the database file,
// so they remain usable long after the process that declared them exited.
// Views are read-only projections; nothing here can alter or delete records.
func (s *DB) installViews(views []config.ViewDefinition) error {
	for _, v := range views {
		stmt := fmt.Sprintf("CREATE VIEW IF NOT EXISTS %s AS %s", v.Name, v.Query)
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create view %s: %w", v.Name, err)
		}
		s.logger.Debug().Str("view", v.Name).Msg("view installed")
	}
	return nil
}
