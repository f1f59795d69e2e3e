package cli

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// Contract: any reader other than os.Stdin is read line by line without liner.
func Test_NewPrompter_Uses_Plain_Reader_When_Stdin_Is_Not_OS_Stdin(t *testing.T) {
	t.Parallel()

	p, release := newPrompter(strings.NewReader("ls\n  add Anna 30 170\n"), "")
	defer release()

	if _, ok := p.(*readerPrompter); !ok {
		t.Fatalf("newPrompter returned %T, want *readerPrompter", p)
	}

	for _, want := range []string{"ls", "  add Anna 30 170"} {
		got, err := p.Prompt(shellPrompt)
		if err != nil {
			t.Fatalf("Prompt: %v", err)
		}

		if got != want {
			t.Fatalf("Prompt() = %q, want %q", got, want)
		}
	}

	if _, err := p.Prompt(shellPrompt); !errors.Is(err, io.EOF) {
		t.Fatalf("Prompt at end = %v, want io.EOF", err)
	}
}
