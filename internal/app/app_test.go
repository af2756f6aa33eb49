package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog_api/internal/config"
	"github.com/Skotchmaster/catalog_api/internal/db"
	"github.com/Skotchmaster/catalog_api/internal/events"
	"github.com/Skotchmaster/catalog_api/internal/logging"
)

func TestNew_SQLiteWithoutOptionalBackends(t *testing.T) {
	cfg := &config.Config{
		DBDriver:    "sqlite",
		DatabaseURL: ":memory:",
		TokenSecret: []byte("secret"),
	}
	ctx := context.Background()

	a, err := New(ctx, cfg, logging.NewWithWriter("error", &bytes.Buffer{}))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	require.NoError(t, db.Migrate(ctx, a.DB))
	assert.IsType(t, events.Noop{}, a.Events)
	assert.False(t, a.Catalog.SearchEnabled())
	assert.Same(t, a.Repo, a.Auth.Repo)
}

func TestNew_BadDriver(t *testing.T) {
	cfg := &config.Config{DBDriver: "mysql", DatabaseURL: "x", TokenSecret: []byte("s")}
	_, err := New(context.Background(), cfg, logging.NewWithWriter("error", &bytes.Buffer{}))
	assert.Error(t, err)
}
