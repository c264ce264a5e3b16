package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/valueobject"
	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

func newGrant(t *testing.T, title, status string) *entity.GrantRecord {
	t.Helper()
	g, err := entity.NewGrantRecord(entity.NewGrantInput{
		Title:    title,
		Funder:   "HUD",
		Link:     "https://www.hud.gov/icdbg",
		Deadline: "2026-03-15",
		Amount:   "$500,000",
		Notes:    "Needs, council resolution",
		Status:   status,
	})
	require.NoError(t, err)
	return g
}

func TestGrantCSVRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewGrantCSVRepository(t.TempDir())

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	g := newGrant(t, "ICDBG", "Drafting")
	require.NoError(t, repo.Create(ctx, g))

	got, err := repo.FindByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Title, got.Title)
	assert.Equal(t, g.Funder, got.Funder)
	assert.Equal(t, g.Link, got.Link)
	assert.Equal(t, "2026-03-15", got.DeadlineString())
	assert.Equal(t, g.Amount, got.Amount)
	assert.Equal(t, "Needs, council resolution", got.Notes)
	assert.Equal(t, valueobject.GrantStatusDrafting, got.Status)
}

func TestGrantCSVRepository_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewGrantCSVRepository(t.TempDir())

	a := newGrant(t, "A", "")
	b := newGrant(t, "B", "")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	require.NoError(t, a.ChangeStatus("Submitted"))
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.GrantStatusSubmitted, got.Status)

	require.NoError(t, repo.Delete(ctx, a.ID))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].Title)

	assert.True(t, apperror.IsNotFound(repo.Delete(ctx, a.ID)))
	assert.True(t, apperror.IsNotFound(repo.Update(ctx, a)))
	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestGrantCSVRepository_LegacyFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	legacy := "Grant Name,Source,Deadline,Status,Notes\n" +
		"Tribal Transit,FTA,2026-05-01,Not Applied,\n" +
		"CTAS,DOJ,,In Progress,\"purpose areas 1, 3\"\n" +
		"EPA GAP,EPA,not a date,Denied,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, GrantsFileName), []byte(legacy), 0o644))

	repo := NewGrantCSVRepository(dir)
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "Tribal Transit", list[0].Title)
	assert.Equal(t, "FTA", list[0].Funder)
	assert.Equal(t, valueobject.GrantStatusToReview, list[0].Status)
	assert.Equal(t, "2026-05-01", list[0].DeadlineString())

	assert.Equal(t, valueobject.GrantStatusDrafting, list[1].Status)
	assert.Equal(t, "purpose areas 1, 3", list[1].Notes)
	assert.Nil(t, list[1].Deadline)

	assert.Equal(t, valueobject.GrantStatusDeclined, list[2].Status)
	assert.Nil(t, list[2].Deadline)

	// ID присваиваются один раз и сохраняются в файле.
	again, err := repo.List(ctx)
	require.NoError(t, err)
	for i := range list {
		assert.Equal(t, list[i].ID, again[i].ID)
	}

	raw, err := os.ReadFile(filepath.Join(dir, GrantsFileName))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "ID,Title,Funder,Link,Deadline,Amount,Notes,Status\n"))
}

func TestGrantCSVRepository_UnknownStatusFallsBack(t *testing.T) {
	dir := t.TempDir()
	content := "ID,Title,Status\n" + uuid.NewString() + ",X,Someday\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, GrantsFileName), []byte(content), 0o644))

	list, err := NewGrantCSVRepository(dir).List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, valueobject.GrantStatusToReview, list[0].Status)
}

func TestGrantCSVRepository_KeepsUnparsedValues(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, GrantsFileName)
	legacy := "Grant Name,Source,Deadline,Status,Notes\n" +
		"Tribal Health,IHS,2026-03-01 00:00:00,Not Applied,n\n" +
		"Water,EPA,\"rolling, check in spring\",Pending review,keep\n"
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	repo := NewGrantCSVRepository(dir)
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "2026-03-01", list[0].DeadlineString())
	assert.Equal(t, valueobject.GrantStatusToReview, list[0].Status)

	assert.Nil(t, list[1].Deadline)
	assert.Equal(t, "rolling, check in spring", list[1].DeadlineString())
	assert.Equal(t, valueobject.GrantStatusToReview, list[1].Status)

	require.NoError(t, repo.Create(ctx, newGrant(t, "ICDBG", "")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, ",Tribal Health,IHS,,2026-03-01,,n,To Review\n")
	assert.Contains(t, content, ",Water,EPA,,\"rolling, check in spring\",,keep,Pending review\n")

	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "rolling, check in spring", list[1].DeadlineString())
	assert.Equal(t, "Pending review", list[1].StoredStatus())

	// Смена статуса заменяет нераспознанное значение, дедлайн остаётся.
	require.NoError(t, list[1].ChangeStatus("Drafting"))
	require.NoError(t, repo.Update(ctx, list[1]))
	got, err := repo.FindByID(ctx, list[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Drafting", got.StoredStatus())
	assert.Equal(t, "rolling, check in spring", got.DeadlineString())
}

func TestSubscriberCSVRepository_Deduplicates(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewSubscriberCSVRepository(dir)

	s1, err := entity.NewSubscriber("Person@Example.org", "grants")
	require.NoError(t, err)
	created, err := repo.Add(ctx, s1)
	require.NoError(t, err)
	assert.True(t, created)

	s2, err := entity.NewSubscriber(" person@example.org ", "")
	require.NoError(t, err)
	created, err = repo.Add(ctx, s2)
	require.NoError(t, err)
	assert.False(t, created)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Person@Example.org", list[0].Email)
	assert.Equal(t, "grants", list[0].Interest)
	assert.False(t, list[0].CreatedAt.IsZero())

	raw, err := os.ReadFile(filepath.Join(dir, EmailsFileName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, "email,interest,created_at", lines[0])
	assert.Len(t, lines, 2)
}

func TestSubscriberCSVRepository_ExistingHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EmailsFileName), []byte("email,interest,created_at\n"), 0o644))
	repo := NewSubscriberCSVRepository(dir)

	s, err := entity.NewSubscriber("a@b.org", "")
	require.NoError(t, err)
	created, err := repo.Add(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, created)

	raw, err := os.ReadFile(filepath.Join(dir, EmailsFileName))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(raw), "email,interest,created_at"))
}
