package testfixtures

// NopLogger логгер, который ничего не пишет
type NopLogger struct{}

func (NopLogger) Debug(format string, v ...interface{}) {}
func (NopLogger) Info(format string, v ...interface{})  {}
func (NopLogger) Warn(format string, v ...interface{})  {}
func (NopLogger) Error(format string, v ...interface{}) {}
