// Package core provides the building blocks shared by the ramjet packages:
// the configuration merger, logger construction and common log fields.
package core

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FrameID is the log field for a frame identifier.
func FrameID(id uuid.UUID) zap.Field {
	return zap.String("frame_id", id.String())
}

// Partition is the log field for a store partition name.
func Partition(name string) zap.Field {
	return zap.String("partition", name)
}

// WorkerPath is the log field for an interception worker script path.
func WorkerPath(path string) zap.Field {
	return zap.String("worker_path", path)
}

// CodecName is the log field describing the active codec.
func CodecName(name string) zap.Field {
	return zap.String("codec", name)
}
