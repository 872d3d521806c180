package main

import (
	"context"

	usertypes "github.com/goliatone/go-users/pkg/types"
	"go.uber.org/zap"
)

// auditLog is an ActivitySink that writes records to the process log.
type auditLog struct {
	logger *zap.Logger
}

func (l auditLog) Log(_ context.Context, record usertypes.ActivityRecord) error {
	l.logger.Info("activity",
		zap.String("verb", record.Verb),
		zap.String("object", record.ObjectType+"/"+record.ObjectID),
		zap.String("channel", record.Channel),
		zap.Any("data", record.Data),
	)
	return nil
}
