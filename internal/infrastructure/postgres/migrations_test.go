package postgres

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The users check constraint mirrors entity.User: local accounts carry a
// password hash, google accounts carry a subject and no hash.
func TestMigration_UserCredentialCheck(t *testing.T) {
	raw, err := os.ReadFile("../../../db/migrations/000001_init.up.sql")
	require.NoError(t, err)
	sql := regexp.MustCompile(`\s+`).ReplaceAllString(string(raw), " ")

	start := strings.Index(sql, "CONSTRAINT users_credential_check CHECK")
	require.GreaterOrEqual(t, start, 0)
	check := sql[start:]
	check = check[:strings.Index(check, ");")]

	assert.Contains(t, check, "(provider = 'local' AND oauth_id IS NULL AND password_hash IS NOT NULL)")
	assert.Contains(t, check, "(provider = 'google' AND oauth_id IS NOT NULL AND password_hash IS NULL)")
}
