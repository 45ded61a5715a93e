package vision

import "testing"

func TestParseModelReply(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Contact
		wantErr bool
	}{
		{
			name:    "bare json array",
			content: `[{"name": "John Doe", "phone": "111-222-3300"}]`,
			want:    []Contact{{Name: "John Doe", Phone: "111-222-3300"}},
		},
		{
			name:    "json code fence",
			content: "Here you go:\n```json\n[{\"name\": \"John Doe\", \"phone\": \"111-222-3300\"}]\n```",
			want:    []Contact{{Name: "John Doe", Phone: "111-222-3300"}},
		},
		{
			name:    "unlabelled code fence",
			content: "```\n[{\"name\": \"A\", \"phone\": \"1\"}]\n```",
			want:    []Contact{{Name: "A", Phone: "1"}},
		},
		{
			name:    "empty entries dropped",
			content: `[{"name": " ", "phone": ""}, {"name": "B", "phone": "2"}]`,
			want:    []Contact{{Name: "B", Phone: "2"}},
		},
		{
			name:    "unknown keys ignored",
			content: `[{"name": "C", "phone": "3", "confidence": 0.9}]`,
			want:    []Contact{{Name: "C", Phone: "3"}},
		},
		{
			name:    "phone only entry kept",
			content: `[{"phone": "4"}]`,
			want:    []Contact{{Phone: "4"}},
		},
		{
			name:    "empty array",
			content: `[]`,
			want:    []Contact{},
		},
		{
			name:    "not an array",
			content: `{"name": "X"}`,
			wantErr: true,
		},
		{
			name:    "prose instead of json",
			content: "I could not find any contacts in this image.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModelReply(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModelReply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseModelReply() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
