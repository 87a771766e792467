package featureflags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvManager_DefaultsWhenUnset(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	for flag, want := range Defaults {
		assert.Equal(t, want, manager.IsEnabled(ctx, flag), string(flag))
	}
}

func TestEnvManager_EnvDisablesDefault(t *testing.T) {
	t.Setenv("TEST_FEATURE_FAIL_ENVELOPE_REWRITE", "false")

	manager := NewEnvManager("TEST_FEATURE_")

	assert.False(t, manager.IsEnabled(context.Background(), FailEnvelopeRewrite))
}

func TestEnvManager_MultipleValues(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"true lowercase", "true", true},
		{"TRUE uppercase", "TRUE", true},
		{"1 numeric", "1", true},
		{"enabled", "enabled", true},
		{"ENABLED", "ENABLED", true},
		{"false", "false", false},
		{"0", "0", false},
		{"other", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLAG", tt.value)

			manager := NewEnvManager("TEST_")

			assert.Equal(t, tt.expected, manager.IsEnabled(context.Background(), "FLAG"))
		})
	}
}

func TestEnvManager_OverrideTakesPrecedence(t *testing.T) {
	t.Setenv("TEST_FEATURE_RATE_LIMIT_ENABLED", "true")

	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()
	assert.True(t, manager.IsEnabled(ctx, RateLimitEnabled))

	manager.SetEnabled(RateLimitEnabled, false)
	assert.False(t, manager.IsEnabled(ctx, RateLimitEnabled))
}

func TestEnvManager_GetAllFlags(t *testing.T) {
	t.Setenv("TEST_FEATURE_COVER_COLOR_ENABLED", "0")

	manager := NewEnvManager("TEST_FEATURE_")
	flags := manager.GetAllFlags()

	assert.Len(t, flags, len(Defaults))
	assert.False(t, flags[CoverColorEnabled])
	assert.True(t, flags[RateLimitEnabled])
	assert.True(t, flags[FailEnvelopeRewrite])
}

func TestNewEnvManager_DefaultPrefix(t *testing.T) {
	t.Setenv("FEATURE_RATE_LIMIT_ENABLED", "false")

	manager := NewEnvManager("")

	assert.False(t, manager.IsEnabled(context.Background(), RateLimitEnabled))
}

func TestStaticManager(t *testing.T) {
	manager := NewStaticManager(map[FeatureFlag]bool{
		RateLimitEnabled: true,
	})
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, RateLimitEnabled))
	assert.False(t, manager.IsEnabled(ctx, CoverColorEnabled))

	manager.SetEnabled(CoverColorEnabled, true)
	assert.True(t, manager.IsEnabled(ctx, CoverColorEnabled))

	all := manager.GetAllFlags()
	all[RateLimitEnabled] = false
	assert.True(t, manager.IsEnabled(ctx, RateLimitEnabled), "GetAllFlags must return a copy")
}

func TestNewStaticManager_NilFlags(t *testing.T) {
	manager := NewStaticManager(nil)

	assert.False(t, manager.IsEnabled(context.Background(), FailEnvelopeRewrite))
	assert.Empty(t, manager.GetAllFlags())
}
