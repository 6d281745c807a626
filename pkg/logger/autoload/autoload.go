// Package autoload configures the global logger from the environment as a
// side effect of being imported:
//
//	import _ "github.com/tanpawarit/huddle/pkg/logger/autoload"
package autoload

import (
	configx "github.com/tanpawarit/huddle/pkg/config"
	logx "github.com/tanpawarit/huddle/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
