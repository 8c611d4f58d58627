package entity

import (
	"testing"
	"time"
)

func TestMergeRecordKeepsExistingOnEmpty(t *testing.T) {
	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	base := DefaultCoverMetadata(now)
	base.Title = "Previous Title"
	base.Authors = "Previous Authors"
	base.DOI = "10.1000/old"

	merged := base.MergeRecord(ArticleRecord{Title: "  ", Authors: "", DOI: ""})

	if merged.Title != "Previous Title" {
		t.Errorf("Title = %q, blank incoming must not overwrite", merged.Title)
	}
	if merged.Authors != "Previous Authors" {
		t.Errorf("Authors = %q, blank incoming must not overwrite", merged.Authors)
	}
	if merged.DOI != "10.1000/old" {
		t.Errorf("DOI = %q, blank incoming must not overwrite", merged.DOI)
	}
}

func TestMergeRecordOverwritesWithNonEmpty(t *testing.T) {
	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	base := DefaultCoverMetadata(now)
	base.Title = "Previous Title"

	merged := base.MergeRecord(ArticleRecord{
		Title:       "New Title",
		Authors:     "A. Author",
		DOI:         "10.1000/new",
		JournalName: "Cell Reports",
	})

	if merged.Title != "New Title" {
		t.Errorf("Title = %q", merged.Title)
	}
	if merged.Authors != "A. Author" {
		t.Errorf("Authors = %q", merged.Authors)
	}
	if merged.DOI != "10.1000/new" {
		t.Errorf("DOI = %q", merged.DOI)
	}
	if merged.JournalName != "CELL REPORTS" {
		t.Errorf("JournalName = %q, want upper-cased", merged.JournalName)
	}
	// 与稿件无关的字段永不改动
	if merged.Website != base.Website {
		t.Errorf("Website changed: %q", merged.Website)
	}
	if merged.Footer != base.Footer {
		t.Errorf("Footer changed: %q", merged.Footer)
	}
	if merged.Tag != base.Tag {
		t.Errorf("Tag changed: %q", merged.Tag)
	}
}

func TestFieldAccessors(t *testing.T) {
	now := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	m := DefaultCoverMetadata(now)

	for _, field := range CoverFields {
		m, _ = m.WithField(field, "value-"+string(field))
	}
	for _, field := range CoverFields {
		if got, ok := m.Field(field); !ok || got != "value-"+string(field) {
			t.Errorf("Field(%s) = %q, %v", field, got, ok)
		}
	}

	if _, ok := m.Field("unknown"); ok {
		t.Error("unknown field reported as present")
	}
}

func TestDefaultCoverMetadataDate(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	m := DefaultCoverMetadata(now)
	if m.Date != "August 2026" {
		t.Errorf("Date = %q, want August 2026", m.Date)
	}
}
