package workflow

import (
	"testing"

	"recodevideo/internal/policy"
)

func TestPlanReason(t *testing.T) {
	streams := []policy.Stream{
		{InputIndex: 0, CodecType: policy.CodecTypeVideo, CodecName: "hevc"},
		{InputIndex: 1, CodecType: policy.CodecTypeAudio, CodecName: "aac"},
		{InputIndex: 2, CodecType: policy.CodecTypeSubtitle, CodecName: "webvtt"},
		{InputIndex: 3, CodecType: policy.CodecTypeData, CodecName: "bin_data"},
	}
	plan, err := policy.Evaluate(streams, policy.DefaultOptions())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	got := planReason(plan.Plan, streams)
	want := "1 video transcode, 1 subtitle conversion, 3 disposition change, 1 dropped"
	if got != want {
		t.Fatalf("planReason = %q, want %q", got, want)
	}
}

func TestPlanReasonContainerOnly(t *testing.T) {
	streams := []policy.Stream{{InputIndex: 0, CodecType: policy.CodecTypeVideo, CodecName: "h264"}}
	plan := []policy.OutputStream{{InputIndex: 0, Action: policy.ActionCopy}}
	if got := planReason(plan, streams); got != "container rewrite" {
		t.Fatalf("planReason = %q", got)
	}
}
