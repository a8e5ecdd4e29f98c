package ui

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/byterings/figgit/internal/config"
	"github.com/byterings/figgit/internal/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestPrinter(format Format) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	SetColor(false)
	var out, errOut bytes.Buffer
	return &Printer{Out: &out, Err: &errOut, Format: format}, &out, &errOut
}

func sampleViews() []ProfileView {
	work := config.Profile{
		Name:     "work",
		UserName: "Jane Doe",
		Email:    "jane@corp.example",
		Patterns: []string{"github.com/corp/*"},
		Extra:    map[string]string{"commit.gpgsign": "true"},
	}
	oss := config.Profile{Name: "oss", UserName: "Jane", Email: "jane@oss.example"}
	return []ProfileView{
		NewProfileView(oss, nil, "work"),
		NewProfileView(work, []config.Binding{{Path: "/srv/corp", Profile: "work"}}, "work"),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"table", FormatTable, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusMessages(t *testing.T) {
	p, out, errOut := newTestPrinter(FormatText)

	p.Success("saved %s", "work")
	p.Info("note")
	p.Warning("careful")
	p.Error(errors.New("boom"))

	assert.Equal(t, "✓ saved work\nℹ note\n", out.String())
	assert.Equal(t, "⚠ careful\n✗ boom\n", errOut.String())
}

func TestStructuredFormatSuppressesStatus(t *testing.T) {
	p, out, _ := newTestPrinter(FormatJSON)

	p.Success("saved")
	p.Info("note")
	assert.Empty(t, out.String())
}

func TestProfilesText(t *testing.T) {
	p, out, _ := newTestPrinter(FormatText)

	require.NoError(t, p.Profiles(sampleViews()))
	assert.Contains(t, out.String(), "  oss ")
	assert.Contains(t, out.String(), "→ work ")
	assert.Contains(t, out.String(), "/srv/corp")
}

func TestProfilesEmpty(t *testing.T) {
	p, out, _ := newTestPrinter(FormatText)

	require.NoError(t, p.Profiles(nil))
	assert.Contains(t, out.String(), "No profiles configured yet.")

	p, out, _ = newTestPrinter(FormatJSON)
	require.NoError(t, p.Profiles(nil))
	assert.JSONEq(t, "[]", out.String())
}

func TestProfilesJSON(t *testing.T) {
	p, out, _ := newTestPrinter(FormatJSON)

	require.NoError(t, p.Profiles(sampleViews()))

	var got []ProfileView
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "oss", got[0].Name)
	assert.False(t, got[0].Current)
	assert.True(t, got[1].Current)
	assert.Equal(t, []string{"/srv/corp"}, got[1].Bindings)
	assert.Equal(t, "true", got[1].Extra["commit.gpgsign"])
}

func TestProfileYAML(t *testing.T) {
	p, out, _ := newTestPrinter(FormatYAML)

	require.NoError(t, p.Profile(sampleViews()[1]))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "work", got["name"])
	assert.Equal(t, "jane@corp.example", got["email"])
}

func TestProfileTable(t *testing.T) {
	p, out, _ := newTestPrinter(FormatTable)

	require.NoError(t, p.Profile(sampleViews()[1]))
	assert.Contains(t, out.String(), "commit.gpgsign")
	assert.Contains(t, out.String(), "jane@corp.example")
}

func TestProfileText(t *testing.T) {
	p, out, _ := newTestPrinter(FormatText)

	require.NoError(t, p.Profile(sampleViews()[1]))
	assert.Contains(t, out.String(), "user.email:")
	assert.Contains(t, out.String(), "commit.gpgsign:")
	assert.Contains(t, out.String(), "github.com/corp/*")
}

func TestChanges(t *testing.T) {
	cs := ChangeSet{
		Repo:    "/srv/corp/app",
		Profile: "work",
		Source:  "binding",
		Changes: []git.Change{
			{Key: "user.name", New: "Jane Doe", WasUnset: true},
			{Key: "user.email", Old: "old@example.com", New: "jane@corp.example"},
			{Key: "user.signingkey", Old: "ABCD1234", Removed: true},
		},
	}

	p, out, _ := newTestPrinter(FormatText)
	require.NoError(t, p.Changes(cs))
	assert.Contains(t, out.String(), "(unset) → Jane Doe")
	assert.Contains(t, out.String(), "ABCD1234 → (unset)")
	assert.Contains(t, out.String(), "old@example.com → jane@corp.example")
	assert.Contains(t, out.String(), "Applied profile 'work'")

	cs.DryRun = true
	p, out, _ = newTestPrinter(FormatText)
	require.NoError(t, p.Changes(cs))
	assert.Contains(t, out.String(), "Dry run: 3 key(s)")

	p, out, _ = newTestPrinter(FormatText)
	require.NoError(t, p.Changes(ChangeSet{Repo: "/srv/corp/app", Profile: "work"}))
	assert.Contains(t, out.String(), "already applied")

	p, out, _ = newTestPrinter(FormatJSON)
	require.NoError(t, p.Changes(ChangeSet{Repo: "/srv/corp/app", Profile: "work"}))
	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, []any{}, got["changes"])
}

func TestStatus(t *testing.T) {
	s := StatusView{
		Repo:     "/srv/corp/app",
		Local:    git.Identity{Name: "Jane Doe", Email: "jane@corp.example"},
		Matching: "work",
		Resolved: "work",
		Source:   "binding",
		Match:    "/srv/corp",
	}
	assert.True(t, s.InSync())

	p, out, _ := newTestPrinter(FormatText)
	require.NoError(t, p.Status(s))
	assert.Contains(t, out.String(), "Jane Doe <jane@corp.example>")
	assert.Contains(t, out.String(), "Global identity:  (not set)")
	assert.Contains(t, out.String(), "Identity matches profile 'work'")

	s.Matching = ""
	assert.False(t, s.InSync())
	p, _, errOut := newTestPrinter(FormatText)
	require.NoError(t, p.Status(s))
	assert.Contains(t, errOut.String(), "does not match profile 'work'")
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("jane@corp.example"))
	assert.False(t, IsValidEmail("jane"))
	assert.False(t, IsValidEmail("jane@corp"))
}
