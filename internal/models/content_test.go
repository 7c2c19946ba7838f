package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_OptionalNumbersStayAbsent(t *testing.T) {
	var r Report
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"a1","title":"Pico","forestLoss":null,"activeAlerts":7}`), &r))

	assert.Nil(t, r.ForestLoss)
	require.NotNil(t, r.ActiveAlerts)
	assert.Equal(t, 7.0, *r.ActiveAlerts)
}

func TestRef_PrefersSlug(t *testing.T) {
	assert.Equal(t, "forest-loss", Report{ID: "a1", Slug: "forest-loss"}.Ref())
	assert.Equal(t, "a1", Report{ID: "a1"}.Ref())
	assert.Equal(t, "b1", Article{ID: "b1"}.Ref())
}

func TestArticle_HasDocument(t *testing.T) {
	assert.False(t, Article{}.HasDocument())
	assert.False(t, Article{DocumentFile: &DocumentFile{}}.HasDocument())
	assert.True(t, Article{DocumentFile: &DocumentFile{URL: "https://cdn.sanity.io/files/x.pdf"}}.HasDocument())
}
