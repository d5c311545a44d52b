package handlers_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// State changes are audited; a declined sale is a warning, not an error.
func TestAuditAndDeclineLogs(t *testing.T) {
	env := newEnv(t, envOpts{})
	w := env.seed(t, "Widget", 2)

	entries := captureLogs(t, func() {
		env.postForm(t, "/items", itemForm("Gadget", "5"))
		env.postForm(t, "/items/"+w.ID+"/sell", url.Values{"quantity": {"2"}})
		env.postForm(t, "/items/"+w.ID+"/sell", url.Values{"quantity": {"1"}})
		env.postForm(t, "/items/"+w.ID+"/delete", url.Values{})
	})

	created, ok := findLog(entries, "item.create")
	require.True(t, ok, "item.create not logged")
	require.Equal(t, "audit", created.Level)
	require.Equal(t, "Gadget", created.Fields["name"])

	sold, ok := findLog(entries, "sale.record")
	require.True(t, ok, "sale.record not logged")
	require.Equal(t, "audit", sold.Level)
	require.Equal(t, w.ID, sold.Fields["item_id"])
	require.Equal(t, "20", sold.Fields["total"])

	declined, ok := findLog(entries, "sale.record.refused")
	require.True(t, ok, "declined sale not logged")
	require.Equal(t, "warn", declined.Level)

	deleted, ok := findLog(entries, "item.delete")
	require.True(t, ok, "item.delete not logged")
	require.Equal(t, w.ID, deleted.Fields["item_id"])

	for _, e := range entries {
		require.NotEqual(t, "error", e.Level, "unexpected error log: %+v", e)
	}
}
