package usecase

import (
	"kos-booking/pkg/errs"

	"go.uber.org/zap"
)

// logFailure logs err at a level matching its kind: business outcomes are
// warnings, infrastructure failures are errors with the stack attached.
func logFailure(log *zap.Logger, err error, msg string, fields ...zap.Field) {
	kind := errs.KindOf(err)
	fields = append(fields, zap.Error(err), zap.String("kind", string(kind)))

	if kind == errs.KindInfrastructure {
		fields = append(fields, zap.Strings("stack", errs.ExtractStackLines(err, 12)))
		log.Error(msg, fields...)
		return
	}
	log.Warn(msg, fields...)
}

// publicMessage hides infrastructure detail from callers.
func publicMessage(err error) string {
	if errs.KindOf(err) == errs.KindInfrastructure {
		return "internal error"
	}
	return err.Error()
}
