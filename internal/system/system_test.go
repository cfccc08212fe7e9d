package system

import "testing"

func TestDefaultQuality(t *testing.T) {
	cases := []struct {
		encoder string
		want    int
	}{
		{"h264_videotoolbox", 75},
		{"h264_nvenc", 28},
		{"libx264", 23},
		{"", 23},
	}
	for _, c := range cases {
		if got := DefaultQuality(c.encoder); got != c.want {
			t.Errorf("DefaultQuality(%q) = %d, want %d", c.encoder, got, c.want)
		}
	}
}

func TestMediaDurationMissingFile(t *testing.T) {
	if _, err := MediaDuration("/no/such/file.mp4"); err == nil {
		t.Error("missing media file accepted")
	}
}
