package store

// ResetMySQL empties every table so contract tests start clean.
func ResetMySQL(s *MySQLStore) error {
	for _, table := range []string{"feedback", "messages", "sessions"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
