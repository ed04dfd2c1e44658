package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIssueType(t *testing.T) {
	for _, value := range []string{"TASK", "BUG", "STORY", "EPIC"} {
		got, err := ParseIssueType(value)
		require.NoError(t, err)
		assert.Equal(t, IssueType(value), got)
	}

	_, err := ParseIssueType("FEATURE")
	assert.Error(t, err)
	_, err = ParseIssueType("task")
	assert.Error(t, err)
}

func TestParseIssueStatus(t *testing.T) {
	for _, value := range []string{"TODO", "IN_PROGRESS", "IN_REVIEW", "DONE"} {
		got, err := ParseIssueStatus(value)
		require.NoError(t, err)
		assert.Equal(t, IssueStatus(value), got)
	}

	_, err := ParseIssueStatus("BLOCKED")
	assert.Error(t, err)
}

func TestParseIssuePriority(t *testing.T) {
	for _, value := range []string{"LOWEST", "LOW", "MEDIUM", "HIGH", "HIGHEST"} {
		got, err := ParseIssuePriority(value)
		require.NoError(t, err)
		assert.Equal(t, IssuePriority(value), got)
	}

	_, err := ParseIssuePriority("URGENT")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	got, err := ParseRole("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, got)

	_, err = ParseRole("SUPERADMIN")
	assert.Error(t, err)
}
