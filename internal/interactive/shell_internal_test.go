package interactive

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/term"
)

func TestTerminalReadWriterMapsInterruptToLineKill(testInstance *testing.T) {
	readWriter := terminalReadWriter{Reader: strings.NewReader("a\x03b\x03"), Writer: io.Discard}
	buffer := make([]byte, 8)

	readCount, readError := readWriter.Read(buffer)

	require.NoError(testInstance, readError)
	require.Equal(testInstance, []byte("a\x15b\x15"), buffer[:readCount])
}

func TestTerminalInterruptClearsLineAndKeepsSession(testInstance *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedLines []string
	}{
		{
			name:          "interrupt_discards_partial_line",
			input:         "delete a\x03list\r",
			expectedLines: []string{"list"},
		},
		{
			name:          "interrupt_on_empty_line",
			input:         "\x03\x03list\rhelp\r",
			expectedLines: []string{"list", "help"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			terminal := term.NewTerminal(terminalReadWriter{Reader: strings.NewReader(testCase.input), Writer: io.Discard}, promptConstant)

			for _, expectedLine := range testCase.expectedLines {
				line, readError := terminal.ReadLine()
				require.NoError(subTest, readError)
				require.Equal(subTest, expectedLine, line)
			}

			_, finalError := terminal.ReadLine()
			require.ErrorIs(subTest, finalError, io.EOF)
		})
	}
}
