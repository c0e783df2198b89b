package iocli

//go:generate moq -out io_mock.go . IO

// IO абстрагирует терминал для CLI команд
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	// Success и Warn печатают строку статуса (с цветом, если вывод это терминал)
	Success(format string, a ...any)
	Warn(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}
