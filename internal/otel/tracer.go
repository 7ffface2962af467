package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/Alturino/lairai/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_NAME)
