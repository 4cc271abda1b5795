package repository

// BackupTable describes one table for the backup tooling: its conflict
// key, its full column list, and allocators for typed rows so payloads
// unmarshal into the same structs the schema was migrated from.
type BackupTable struct {
	Name     string
	Key      []string
	Columns  []string
	NewRow   func() any
	NewSlice func() any
}

// BackupTables lists every persisted table in insert-safe order:
// referenced tables come before the tables that point at them.
func BackupTables() []BackupTable {
	return []BackupTable{
		{
			Name:     "vocab_items",
			Key:      []string{"id"},
			Columns:  []string{"id", "form", "pronunciation", "meaning", "level", "alt_forms", "category", "created_at"},
			NewRow:   func() any { return &vocabItemModel{} },
			NewSlice: func() any { return &[]vocabItemModel{} },
		},
		{
			Name:     "phrases",
			Key:      []string{"id"},
			Columns:  []string{"id", "form", "pronunciation", "meaning", "level", "tier", "activated", "in_study", "created_at"},
			NewRow:   func() any { return &phraseModel{} },
			NewSlice: func() any { return &[]phraseModel{} },
		},
		{
			Name:     "phrase_components",
			Key:      []string{"phrase_id", "position"},
			Columns:  []string{"phrase_id", "position", "vocab_item_id"},
			NewRow:   func() any { return &phraseComponentModel{} },
			NewSlice: func() any { return &[]phraseComponentModel{} },
		},
		{
			Name:     "phrase_hierarchies",
			Key:      []string{"complex_phrase_id", "simple_phrase_id"},
			Columns:  []string{"complex_phrase_id", "simple_phrase_id"},
			NewRow:   func() any { return &phraseHierarchyModel{} },
			NewSlice: func() any { return &[]phraseHierarchyModel{} },
		},
		{
			Name:     "study_entries",
			Key:      []string{"id"},
			Columns:  []string{"id", "vocab_item_id", "active", "note", "added_at", "updated_at"},
			NewRow:   func() any { return &studyEntryModel{} },
			NewSlice: func() any { return &[]studyEntryModel{} },
		},
		{
			Name:     "cards",
			Key:      []string{"id"},
			Columns:  []string{"id", "owner_kind", "owner_id", "modality", "active", "created_at"},
			NewRow:   func() any { return &cardModel{} },
			NewSlice: func() any { return &[]cardModel{} },
		},
		{
			Name:     "card_progress",
			Key:      []string{"card_id"},
			Columns:  []string{"card_id", "easiness", "repetitions", "interval_days", "next_review_at", "state", "total_reviews", "correct_reviews", "last_review_at", "version", "created_at", "updated_at"},
			NewRow:   func() any { return &progressModel{} },
			NewSlice: func() any { return &[]progressModel{} },
		},
		{
			Name:     "review_events",
			Key:      []string{"id"},
			Columns:  []string{"id", "card_id", "session_id", "quality", "answer", "easiness_before", "easiness_after", "interval_before", "interval_after", "state_before", "state_after", "failed_component_ids", "failed_structure", "created_at"},
			NewRow:   func() any { return &reviewEventModel{} },
			NewSlice: func() any { return &[]reviewEventModel{} },
		},
		{
			Name:     "study_sessions",
			Key:      []string{"id"},
			Columns:  []string{"id", "started_at", "ended_at", "studied", "correct", "incorrect"},
			NewRow:   func() any { return &studySessionModel{} },
			NewSlice: func() any { return &[]studySessionModel{} },
		},
		{
			Name:     "activation_logs",
			Key:      []string{"id"},
			Columns:  []string{"id", "phrase_id", "reason", "component_ids", "created_at"},
			NewRow:   func() any { return &activationLogModel{} },
			NewSlice: func() any { return &[]activationLogModel{} },
		},
	}
}
