package seed

import (
	"os"
	"path/filepath"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryDryRunCreatesNoRows(t *testing.T) {
	factory := NewFactory(nil, SeedOptions{DryRun: true, SkipBcrypt: true})

	user, err := factory.CreateUser()
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.Username)
	assert.NotEmpty(t, user.Email)

	message, err := factory.CreateMessage(user)
	require.NoError(t, err)
	assert.NotZero(t, message.ID)
	assert.Equal(t, user.ID, message.UserID)

	require.NoError(t, factory.CreateFollow(user, user))
	require.NoError(t, factory.CreateLike(user, message))
}

func TestBuildMessageRespectsLengthLimit(t *testing.T) {
	factory := NewFactory(nil, SeedOptions{DryRun: true})
	user := &models.User{ID: 1}

	for i := 0; i < 50; i++ {
		message := factory.BuildMessage(user)
		assert.LessOrEqual(t, len(message.Text), models.MaxMessageLength)
		assert.NotEmpty(t, message.Text)
	}
}

func TestBuildMessageSpreadsTimestamps(t *testing.T) {
	factory := NewFactory(nil, SeedOptions{DryRun: true, MaxDays: 30})
	user := &models.User{ID: 1}

	message := factory.BuildMessage(user)
	assert.False(t, message.CreatedAt.IsZero())
}

func TestCreateUserOverrides(t *testing.T) {
	factory := NewFactory(nil, SeedOptions{DryRun: true, SkipBcrypt: true})

	user, err := factory.CreateUser(func(u *models.User) {
		u.Username = "fixed-name"
		u.Bio = ""
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-name", user.Username)
	assert.Empty(t, user.Bio)
}

func TestLoadPreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preset.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"num_users: 5\nnum_messages: 10\nfollow_rate: 0.5\nclean: true\n"), 0o600))

	opts, err := LoadPreset(path)
	require.NoError(t, err)
	assert.Equal(t, 5, opts.NumUsers)
	assert.Equal(t, 10, opts.NumMessages)
	assert.InDelta(t, 0.5, opts.FollowRate, 0.0001)
	assert.True(t, opts.ShouldClean)
	// Unspecified fields keep defaults.
	assert.InDelta(t, DefaultOptions().LikeRate, opts.LikeRate, 0.0001)
}

func TestLoadPresetMissingFile(t *testing.T) {
	_, err := LoadPreset(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestSeedSocialMeshZeroRate(t *testing.T) {
	factory := NewFactory(nil, SeedOptions{DryRun: true})
	users := []*models.User{{ID: 1}, {ID: 2}}

	created, err := SeedSocialMesh(factory, users, 0)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestSeedSocialMeshFullRate(t *testing.T) {
	factory := NewFactory(nil, SeedOptions{DryRun: true})
	users := []*models.User{{ID: 1}, {ID: 2}, {ID: 3}}

	created, err := SeedSocialMesh(factory, users, 1.0)
	require.NoError(t, err)
	// Every ordered pair except self-pairs.
	assert.Equal(t, 6, created)
}
