package config

import (
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()

	require.Equal(t, StorageMemory, viper.GetString("storage.driver"))
	require.Equal(t, "8080", viper.GetString("server.http.port"))
	require.Equal(t, "kitchenpos.events", viper.GetString("rabbitmq.exchange"))
	require.False(t, viper.GetBool("rabbitmq.enabled"))
}

func TestBindEnv_OverridesNestedKeys(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("KITCHENPOS_POSTGRES_HOST", "db.internal")
	t.Setenv("KITCHENPOS_STORAGE_DRIVER", StoragePostgres)

	SetDefaults()
	BindEnv()

	require.Equal(t, "db.internal", viper.GetString("postgres.host"))
	require.Equal(t, StoragePostgres, viper.GetString("storage.driver"))
}

func TestSetupLogger_UsesConfiguredLevel(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	SetDefaults()
	viper.Set("log.level", "debug")
	SetupLogger()

	require.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}
