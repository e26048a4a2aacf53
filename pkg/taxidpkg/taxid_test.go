package taxidpkg

import "testing"

func TestIsValid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		id   string
		want bool
	}{
		{name: "OK", id: "12345678901", want: true},
		{name: "TooShort", id: "1234567890", want: false},
		{name: "TooLong", id: "123456789012", want: false},
		{name: "Letters", id: "1234567890a", want: false},
		{name: "Punctuation", id: "123.456.789", want: false},
		{name: "Empty", id: "", want: false},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := IsValid(tc.id); got != tc.want {
				t.Errorf("IsValid(%q) = %v, want %v", tc.id, got, tc.want)
			}
		})
	}
}
