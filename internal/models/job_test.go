package models

import (
	"testing"

	"github.com/google/uuid"
)

// TestProcessingJobValidTarget verifies the exactly-one-target rule: a job
// names either a single content item or a bundle with a member snapshot.
func TestProcessingJobValidTarget(t *testing.T) {
	contentID := uuid.New()
	bundleID := uuid.New()
	members := []uuid.UUID{uuid.New(), uuid.New()}

	tests := []struct {
		name string
		job  ProcessingJob
		want bool
	}{
		{
			name: "single content",
			job:  ProcessingJob{ContentID: &contentID},
			want: true,
		},
		{
			name: "bundle with snapshot",
			job:  ProcessingJob{BundleID: &bundleID, ContentIDs: members},
			want: true,
		},
		{
			name: "no target",
			job:  ProcessingJob{},
			want: false,
		},
		{
			name: "both targets",
			job:  ProcessingJob{ContentID: &contentID, BundleID: &bundleID, ContentIDs: members},
			want: false,
		},
		{
			name: "content with stray snapshot",
			job:  ProcessingJob{ContentID: &contentID, ContentIDs: members},
			want: false,
		},
		{
			name: "bundle without snapshot",
			job:  ProcessingJob{BundleID: &bundleID},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.job.ValidTarget()
			if got != tt.want {
				t.Errorf("ValidTarget() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessingJobIsBundleJob(t *testing.T) {
	bundleID := uuid.New()
	contentID := uuid.New()

	if (&ProcessingJob{BundleID: &bundleID}).IsBundleJob() != true {
		t.Error("bundle job not detected")
	}
	if (&ProcessingJob{ContentID: &contentID}).IsBundleJob() != false {
		t.Error("single-content job misdetected as bundle job")
	}
}
