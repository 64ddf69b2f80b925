package db

import (
	"strings"
	"testing"
)

func TestMigrationsCascadeDeletes(t *testing.T) {
	tests := []struct {
		name string
		ddl  string
		refs int
	}{
		{"ad_variants", migrationAdVariants, 1},
		{"recipients", migrationRecipients, 1},
		{"sends", migrationSends, 3},
		{"events", migrationEvents, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Count(tt.ddl, "ON DELETE CASCADE")
			if got != tt.refs {
				t.Errorf("%s has %d cascading FKs, want %d", tt.name, got, tt.refs)
			}
		})
	}
}

func TestRecipientsPartialUniqueIndexes(t *testing.T) {
	for _, idx := range []string{"recipients_unique_email", "recipients_unique_phone"} {
		if !strings.Contains(migrationRecipients, idx) {
			t.Errorf("missing index %s", idx)
		}
	}
	if strings.Count(migrationRecipients, "WHERE") != 2 {
		t.Error("unique indexes must be partial so NULL contacts do not collide")
	}
}

func TestCampaignsUpdatedAtTrigger(t *testing.T) {
	if !strings.Contains(migrationUpdatedAtTrigger, "update_campaigns_updated_at") {
		t.Error("missing updated_at trigger")
	}
	if !strings.Contains(migrationUpdatedAtTrigger, "BEFORE UPDATE") {
		t.Error("trigger must fire before update")
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	all := []string{
		migrationCampaigns,
		migrationAdVariants,
		migrationRecipients,
		migrationSends,
		migrationEvents,
		migrationJobs,
	}
	for _, ddl := range all {
		for _, stmt := range strings.Split(ddl, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if strings.HasPrefix(stmt, "CREATE") && !strings.Contains(stmt, "IF NOT EXISTS") {
				t.Errorf("statement not re-runnable: %.60s", stmt)
			}
		}
	}
}
