// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "testing"

func TestFindAge(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"year-old hyphenated", "A 45-year-old man presented with fever.", "45"},
		{"year old spaced", "A 72 year old woman was admitted.", "72"},
		{"aged", "The patient, aged 63, reported chest pain.", "63"},
		{"age prefix", "A patient age 58 with dyspnea.", "58"},
		{"y/o", "A 34 y/o male presented to the emergency department.", "34"},
		{"age colon", "Age: 29. The patient complained of headache.", "29"},
		{"years of age", "She was 81 years of age at presentation.", "81"},
		{"upper bound rejected", "A 150-year-old specimen was described.", ""},
		{"zero rejected", "A 0-year-old infant record.", ""},
		{"boundary 119 accepted", "A 119-year-old patient.", "119"},
		{"boundary 120 rejected", "A 120-year-old patient.", ""},
		{"no age", "The patient presented with fever and cough.", ""},
		{"empty text", "", ""},
		{
			// The first matching pattern decides; an out-of-range hit is
			// not rescued by a later pattern.
			name: "first pattern wins",
			text: "A 300-year-old legend, but the man was aged 45.",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindAge(tt.text); got != tt.want {
				t.Errorf("FindAge(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindGender(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"male patient", "A male patient presented with fever.", "Male"},
		{"female patient", "A female patient presented. She noted her symptoms worsened.", "Female"},
		{"man with pronouns", "A 45-year-old man presented with fever. He reported that his symptoms began a week earlier.", "Male"},
		{"woman with pronouns", "A 60-year-old woman was admitted. She said her pain worsened at night.", "Female"},
		{"case insensitive", "THE BOY WAS BROUGHT IN BY HIS MOTHER AFTER HE COLLAPSED.", "Male"},
		{"girl", "A 7-year-old girl presented. She had a rash and she was febrile.", "Female"},
		{"no tokens", "The patient presented with fever and cough.", ""},
		{"empty text", "", ""},
		{
			// Equal counts on both sides resolve to no assignment.
			name: "tie yields empty",
			text: "The man and the woman arrived together.",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindGender(tt.text); got != tt.want {
				t.Errorf("FindGender(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFindGenderValues(t *testing.T) {
	// Whatever the input, the result is one of three values.
	inputs := []string{
		"A male patient.", "A female patient was seen. She and her sister...",
		"he he he she she", "", "no demographics at all",
	}
	for _, text := range inputs {
		got := FindGender(text)
		if got != "Male" && got != "Female" && got != "" {
			t.Errorf("FindGender(%q) = %q, want Male, Female, or empty", text, got)
		}
	}
}
