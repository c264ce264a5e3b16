package entity_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/valueobject"
	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

func TestProposalDraft_Markdown(t *testing.T) {
	draft := entity.ProposalDraft{
		Project:      "Health Initiative",
		Organization: "Example Nation",
		Summary:      "Improve clinic access",
	}

	want := "# Health Initiative — Proposal Draft\n" +
		"Organization: Example Nation\n" +
		"\n" +
		"## Summary\nImprove clinic access\n" +
		"## Needs Statement\n\n" +
		"## Goals & Objectives\n\n" +
		"## Methods / Activities\n\n" +
		"## Evaluation\n\n" +
		"## Budget\n\n" +
		"## Sustainability\n\n" +
		"## Alignment with Tribal Sovereignty & Culture\n\n"

	assert.Equal(t, want, draft.Markdown())
}

func TestProposalDraft_Defaults(t *testing.T) {
	draft := entity.ProposalDraft{Project: "   ", Organization: "\t"}

	md := draft.Markdown()

	assert.True(t, strings.HasPrefix(md, "# Untitled Project — Proposal Draft\nOrganization: N/A\n\n"))
	assert.Equal(t, len(entity.SectionHeadings), strings.Count(md, "\n## "))
	assert.Equal(t, entity.DefaultFileName, draft.FileBaseName())
}

func TestProposalDraft_VerbatimBodies(t *testing.T) {
	draft := entity.ProposalDraft{Project: "P", Goals: "- **one**\n- two <b>"}

	assert.Contains(t, draft.Markdown(), "## Goals & Objectives\n- **one**\n- two <b>\n## Methods")
}

func TestNewGrantRecord(t *testing.T) {
	g, err := entity.NewGrantRecord(entity.NewGrantInput{
		Title:    "  CTAS  ",
		Funder:   "DOJ",
		Deadline: "2026-03-01",
	})

	require.NoError(t, err)
	assert.Equal(t, "CTAS", g.Title)
	assert.Equal(t, valueobject.GrantStatusToReview, g.Status)
	assert.Equal(t, "2026-03-01", g.DeadlineString())
	assert.NotEqual(t, [16]byte{}, [16]byte(g.ID))
}

func TestNewGrantRecord_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   entity.NewGrantInput
	}{
		{"blank title", entity.NewGrantInput{Title: " "}},
		{"bad status", entity.NewGrantInput{Title: "A", Status: "Pending"}},
		{"bad deadline", entity.NewGrantInput{Title: "A", Deadline: "03/01/2026"}},
		{"bad link", entity.NewGrantInput{Title: "A", Link: "javascript:alert(1)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := entity.NewGrantRecord(tt.in)
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}

func TestGrantRecord_ChangeStatus(t *testing.T) {
	g, err := entity.NewGrantRecord(entity.NewGrantInput{Title: "A"})
	require.NoError(t, err)

	require.NoError(t, g.ChangeStatus("Awarded"))
	assert.Equal(t, valueobject.GrantStatusAwarded, g.Status)

	assert.Error(t, g.ChangeStatus("Denied"))
	assert.Equal(t, valueobject.GrantStatusAwarded, g.Status)
}

func TestParseStoredDeadline(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2026-03-01", "2026-03-01"},
		{"2026-03-01 00:00:00", "2026-03-01"},
		{"2026-03-01T17:00:00-07:00", "2026-03-01"},
		{"03/01/2026", "2026-03-01"},
		{"March 1 2026", "2026-03-01"},
		{"Mar 1, 2026", "2026-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := entity.ParseStoredDeadline(tt.raw)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format(entity.DeadlineLayout))
		})
	}

	got, err := entity.ParseStoredDeadline("  ")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = entity.ParseStoredDeadline("rolling, check in spring")
	assert.Error(t, err)
}

func TestGrantRecord_RawValues(t *testing.T) {
	g := &entity.GrantRecord{
		Title:       "Water",
		Status:      valueobject.GrantStatusToReview,
		RawDeadline: "rolling, check in spring",
		RawStatus:   "Pending review",
	}

	assert.Equal(t, "rolling, check in spring", g.DeadlineString())
	assert.Equal(t, "Pending review", g.StoredStatus())

	require.NoError(t, g.ChangeStatus("Drafting"))
	assert.Equal(t, "Drafting", g.StoredStatus())
	assert.Equal(t, "rolling, check in spring", g.DeadlineString())
}

func TestNewSubscriber(t *testing.T) {
	s, err := entity.NewSubscriber("  Chief@Example.org ", " grants ")
	require.NoError(t, err)
	assert.Equal(t, "Chief@Example.org", s.Email)
	assert.Equal(t, "grants", s.Interest)
	assert.Equal(t, "chief@example.org", s.Key())

	for _, bad := range []string{"", "no-at", "@example.org", "chief@", "chief @example.org"} {
		_, err := entity.NewSubscriber(bad, "")
		assert.True(t, apperror.IsValidation(err), bad)
	}
}

func TestChatConversation(t *testing.T) {
	conv := entity.ChatConversation{
		History: []entity.ChatMessage{{Role: entity.ChatRoleUser, Content: "hi"}, {Role: entity.ChatRoleAssistant, Content: "hello"}},
		Input:   "next",
	}
	require.NoError(t, conv.Validate())

	msgs := conv.Messages("sys")
	require.Len(t, msgs, 4)
	assert.Equal(t, entity.ChatMessage{Role: entity.ChatRoleSystem, Content: "sys"}, msgs[0])
	assert.Equal(t, entity.ChatMessage{Role: entity.ChatRoleUser, Content: "next"}, msgs[3])

	conv.History = append(conv.History, entity.ChatMessage{Role: entity.ChatRoleSystem, Content: "override"})
	assert.True(t, apperror.IsValidation(conv.Validate()))

	assert.ErrorIs(t, entity.ChatConversation{Input: " "}.Validate(), apperror.ErrEmptyChatMessage)
}
