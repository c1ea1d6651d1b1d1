package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/domain"
)

func TestSeedPopulatesEmptyDatabase(t *testing.T) {
	settings := &fakeSettingsRepo{}
	employees := newFakeEmployeeRepo()
	escalations := newFakeEscalationRepo()
	seeder := NewSeedService(settings, employees, escalations, zap.NewNop())

	require.NoError(t, seeder.Run(context.Background(), "seed-pass-123"))

	stored, err := settings.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings().Departments, stored.Departments)

	directory, err := employees.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, directory, 13)

	wilson, err := employees.FindHOD(context.Background(), "Finance")
	require.NoError(t, err)
	assert.Equal(t, "Mr. Wilson", wilson.Name)

	escList, err := escalations.List(context.Background())
	require.NoError(t, err)
	// Three samples; the Documentation one is skipped since no Documentation
	// HOD is in the seed directory.
	assert.Len(t, escList, 2)
	for _, esc := range escList {
		assert.NotEmpty(t, esc.AssignedTo)
		assert.NotEmpty(t, esc.HODEmail)
		// Same involvement shape as engine-created records: creator and HOD.
		assert.Equal(t, "admin@example.com", esc.CreatedBy)
		assert.Contains(t, esc.InvolvedUsers, esc.CreatedBy)
		assert.Contains(t, esc.InvolvedUsers, esc.HODEmail)
	}
	// Sample records never enqueue notifications.
	assert.Empty(t, escalations.enqueued)
}

func TestSeedSkipsPopulatedDirectory(t *testing.T) {
	settings := &fakeSettingsRepo{}
	employees := newFakeEmployeeRepo(domain.Employee{ID: "e1", Email: "existing@example.com", Role: domain.RoleAdmin, Active: true})
	escalations := newFakeEscalationRepo()
	seeder := NewSeedService(settings, employees, escalations, zap.NewNop())

	require.NoError(t, seeder.Run(context.Background(), "seed-pass-123"))

	directory, err := employees.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, directory, 1)

	_, err = settings.Get(context.Background())
	assert.Error(t, err) // untouched
}
