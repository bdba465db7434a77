package js

import (
	"strings"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"
)

// consoleAPI implements console.log, console.info, console.warn and
// console.error on top of a logrus logger.
type consoleAPI struct {
	log logrus.FieldLogger
}

func (c *consoleAPI) register(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", c.logFn(c.log.Info))
	console.Set("info", c.logFn(c.log.Info))
	console.Set("debug", c.logFn(c.log.Debug))
	console.Set("warn", c.logFn(c.log.Warn))
	console.Set("error", c.logFn(c.log.Error))
	vm.Set("console", console)
}

func (c *consoleAPI) logFn(emit func(args ...interface{})) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		emit(formatArgs(call.Arguments))
		return goja.Undefined()
	}
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
