package utils

import (
	Logger "github.com/Luismorlan/hackernews/utils/log"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// StartTracer starts the Datadog tracer for service in environment env.
func StartTracer(service string, env string) {
	tracer.Start(
		tracer.WithService(service),
		tracer.WithEnv(env),
	)

	Logger.Log.WithFields(
		logrus.Fields{"env": env},
	).Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	tracer.Stop()
}
