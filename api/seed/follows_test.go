package seed

import (
	"strings"
	"testing"

	"Warbler/api/database"
	"Warbler/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFollowsCountsOnlyNewEdges(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	var users []*models.User
	var ids []uint
	for _, name := range []string{"alice", "bob", "carol"} {
		u, err := models.Signup(db, models.SignupParams{Username: name, Email: name + "@test.com", Password: "password"})
		require.NoError(t, err)
		users = append(users, u)
		ids = append(ids, u.ID)
	}

	// bob already follows alice
	_, err = users[1].Follow(db, users[0])
	require.NoError(t, err)

	n, err := loadFollows(db, strings.NewReader("user_being_followed_id,user_following_id\n1,2\n1,3\n"), ids)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
