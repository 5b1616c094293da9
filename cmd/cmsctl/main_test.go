package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blich-studio/cms/internal/database"
	"github.com/blich-studio/cms/internal/studio"
	"github.com/blich-studio/cms/internal/user"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func tempDatabase(t *testing.T) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "cms.db")
}

func openDatabase(t *testing.T, url string) *database.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Options{URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestMigrate(t *testing.T) {
	url := tempDatabase(t)

	out, err := execute(t, "migrate", "--database-url", url)
	require.NoError(t, err)
	assert.Contains(t, out, "database is up to date (sqlite)")

	// second run has nothing to apply
	_, err = execute(t, "migrate", "--database-url", url)
	require.NoError(t, err)

	db := openDatabase(t, url)
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	assert.Positive(t, n)
}

func TestUserCreate(t *testing.T) {
	url := tempDatabase(t)
	args := []string{"user", "create", "--database-url", url,
		"--email", "Admin@Blich.Studio", "--name", "Admin", "--password", "s3cret-pass"}

	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "<admin@blich.studio>")

	db := openDatabase(t, url)
	u, err := user.NewStore(db).Authenticate(context.Background(), "admin@blich.studio", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "Admin", u.FullName)
	require.NoError(t, db.Close())

	_, err = execute(t, args...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestUserCreateValidation(t *testing.T) {
	url := tempDatabase(t)

	_, err := execute(t, "user", "create", "--database-url", url, "--name", "Admin", "--password", "s3cret-pass")
	require.Error(t, err)

	_, err = execute(t, "user", "create", "--database-url", url,
		"--email", "admin@blich.studio", "--name", "Admin", "--password", "short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8 characters")
}

const studioSeed = `name: Blich Studio
description: Small indie studio.
foundedYear: 2021
teamMembers:
  - name: Jana
    role: Designer
  - name: Petr
    role: Programmer
socialLinks:
  itch: https://blich.itch.io
`

func TestStudioSeed(t *testing.T) {
	url := tempDatabase(t)
	seed := filepath.Join(t.TempDir(), "studio.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(studioSeed), 0o600))

	out, err := execute(t, "studio", "seed", seed, "--database-url", url)
	require.NoError(t, err)
	assert.Contains(t, out, `studio "Blich Studio" saved (2 team members)`)

	// seeding again updates the same row
	_, err = execute(t, "studio", "seed", seed, "--database-url", url)
	require.NoError(t, err)

	db := openDatabase(t, url)
	st, err := studio.NewStore(db).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2021, st.FoundedYear)
	assert.Equal(t, "https://blich.itch.io", st.SocialLinks.Itch)

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM studio").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestStudioSeedRejectsUnknownKeys(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "studio.yaml")
	require.NoError(t, os.WriteFile(seed, []byte("name: X\nfounded: 2020\n"), 0o600))

	_, err := readStudioSeed(seed)
	require.Error(t, err)
}

func TestTokensPurge(t *testing.T) {
	out, err := execute(t, "tokens", "purge", "--database-url", tempDatabase(t))
	require.NoError(t, err)
	assert.Contains(t, out, "purged 0 revoked tokens")
}

func TestRoutes(t *testing.T) {
	cases := map[string]string{
		"cms-api":     "/articles",
		"cms-backend": "/admin",
		"gateway":     "/graphql",
	}
	for service, want := range cases {
		t.Run(service, func(t *testing.T) {
			out, err := execute(t, "routes", service)
			require.NoError(t, err)
			assert.Contains(t, out, want)
		})
	}

	_, err := execute(t, "routes", "billing")
	require.Error(t, err)
}
