package game

import "testing"

func TestCoverArtDataURI(t *testing.T) {
	tests := []struct {
		name string
		art  CoverArt
		want string
	}{
		{"no art", CoverArt{}, ""},
		{"png", CoverArt{MIMEType: "image/png", Data: []byte("hi")}, "data:image/png;base64,aGk="},
		{"missing mime", CoverArt{Data: []byte{0xff}}, "data:application/octet-stream;base64,/w=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.art.DataURI(); got != tt.want {
				t.Errorf("DataURI() = %q, want %q", got, tt.want)
			}
			if tt.art.Empty() != (tt.want == "") {
				t.Errorf("Empty() = %v for %q", tt.art.Empty(), tt.want)
			}
		})
	}
}
