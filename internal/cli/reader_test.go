package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonBlockingReader_ReadLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single question", input: "What does WBC mean?\n", want: []string{"What does WBC mean?"}},
		{name: "surrounding whitespace", input: "  Is this serious?  \r\n", want: []string{"Is this serious?"}},
		{name: "blank line", input: "\n", want: []string{""}},
		{name: "last line without newline", input: "first\nsecond", want: []string{"first", "second"}},
		{name: "empty input", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewNonBlockingReader(strings.NewReader(tt.input))
			ctx := context.Background()

			var got []string
			for {
				line, err := r.ReadLine(ctx)
				if err != nil {
					require.ErrorIs(t, err, io.EOF)
					break
				}
				got = append(got, line)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNonBlockingReader_Cancellation(t *testing.T) {
	t.Run("already canceled", func(t *testing.T) {
		r := NewNonBlockingReader(strings.NewReader("ignored\n"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.ReadLine(ctx)
		assert.ErrorIs(t, err, ErrInputCancelled)
	})

	t.Run("canceled while waiting", func(t *testing.T) {
		pr, pw := io.Pipe()
		t.Cleanup(func() {
			_ = pw.Close()
			_ = pr.Close()
		})

		r := NewNonBlockingReader(pr)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := r.ReadLine(ctx)
		assert.ErrorIs(t, err, ErrInputCancelled)
	})
}

func TestNewNonBlockingReader_Nil(t *testing.T) {
	assert.Panics(t, func() { NewNonBlockingReader(nil) })
}
