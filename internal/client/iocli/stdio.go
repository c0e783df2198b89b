package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Stdio реализует IO поверх потоков процесса
type Stdio struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	isTerm bool

	green  *color.Color
	yellow *color.Color
}

// NewStdio creates IO bound to os.Stdin and os.Stdout
func NewStdio() IO {
	fd := int(os.Stdin.Fd())
	return newStdio(os.Stdin, os.Stdout, fd, term.IsTerminal(fd))
}

// NewStream creates IO over arbitrary streams. Passwords are read as plain
// lines, without disabling echo.
func NewStream(in io.Reader, out io.Writer) IO {
	return newStdio(in, out, -1, false)
}

func newStdio(in io.Reader, out io.Writer, fd int, isTerm bool) *Stdio {
	return &Stdio{
		in:     bufio.NewReader(in),
		out:    out,
		fd:     fd,
		isTerm: isTerm,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
	}
}

func (s *Stdio) Println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) Success(format string, a ...any) {
	s.green.Fprintf(s.out, "✓ "+format+"\n", a...)
}

func (s *Stdio) Warn(format string, a ...any) {
	s.yellow.Fprintf(s.out, "! "+format+"\n", a...)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	return s.readLine()
}

// ReadPassword читает пароль без эха, если stdin это терминал.
// Иначе (pipe, тесты) читается обычная строка.
func (s *Stdio) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)
	if !s.isTerm {
		return s.readLine()
	}

	pwBytes, err := term.ReadPassword(s.fd)
	s.Println()
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

func (s *Stdio) readLine() (string, error) {
	input, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimRight(input, "\r\n"), nil
}
