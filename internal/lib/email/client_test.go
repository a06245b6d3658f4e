package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useRepoTemplates(t *testing.T) {
	t.Helper()
	prev := TemplateDir
	TemplateDir = "../../../templates/emails"
	t.Cleanup(func() { TemplateDir = prev })
}

func TestRenderBookingReceived(t *testing.T) {
	useRepoTemplates(t)

	html, err := Render(TemplateBookingReceived, PreviewData[TemplateBookingReceived])
	require.NoError(t, err)

	assert.Contains(t, html, "Hi Anna,")
	assert.Contains(t, html, "Sunbed &amp; umbrella")
	assert.Contains(t, html, "2024-12-25")
	assert.Contains(t, html, "Participants")
}

func TestRenderOmitsEmptyRows(t *testing.T) {
	useRepoTemplates(t)

	html, err := Render(TemplateBookingReceived, BookingReceived{FirstName: "Marco"}.Data())
	require.NoError(t, err)

	assert.Contains(t, html, "Hi Marco,")
	assert.NotContains(t, html, "Participants")
	assert.NotContains(t, html, "Service")
}

func TestRenderUnknownTemplate(t *testing.T) {
	useRepoTemplates(t)

	_, err := Render(Template("missing"), nil)
	assert.Error(t, err)
}
