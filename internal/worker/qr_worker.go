package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/svn-hms/complaint-service/internal/config"
	"github.com/svn-hms/complaint-service/internal/qr"
	"github.com/svn-hms/complaint-service/internal/repository"
)

// QRJob is one queued render request. Attempt counts prior failures.
type QRJob struct {
	RoomID  int64 `json:"room_id"`
	Attempt int   `json:"attempt"`
}

// QRQueue is a Redis-list backed job queue for QR rendering.
type QRQueue struct {
	client *redis.Client
	key    string
}

// NewQRQueue builds the queue on the given Redis client.
func NewQRQueue(client *redis.Client, key string) *QRQueue {
	return &QRQueue{client: client, key: key}
}

// Enqueue schedules a fresh render for the room.
func (q *QRQueue) Enqueue(ctx context.Context, roomID int64) error {
	return q.push(ctx, QRJob{RoomID: roomID})
}

func (q *QRQueue) push(ctx context.Context, job QRJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, data).Err()
}

// pop blocks for up to two seconds waiting for a job. redis.Nil maps to
// (nil, nil) so the worker loop can poll its context.
func (q *QRQueue) pop(ctx context.Context) (*QRJob, error) {
	result, err := q.client.BRPop(ctx, 2*time.Second, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}
	var job QRJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// QRWorker consumes render jobs and writes signed QR images to disk.
type QRWorker struct {
	queue  *QRQueue
	rooms  repository.RoomRepository
	signer *qr.Signer
	cfg    config.QR
	logger *zap.Logger
}

// NewQRWorker builds the worker.
func NewQRWorker(queue *QRQueue, rooms repository.RoomRepository, signer *qr.Signer, cfg config.QR, logger *zap.Logger) *QRWorker {
	return &QRWorker{queue: queue, rooms: rooms, signer: signer, cfg: cfg, logger: logger}
}

// Run consumes jobs until the context is cancelled.
func (w *QRWorker) Run(ctx context.Context) {
	w.logger.Info("qr worker started", zap.String("queue", w.cfg.QueueKey))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("qr worker stopped")
			return
		default:
		}

		job, err := w.queue.pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("qr worker stopped")
				return
			}
			w.logger.Error("pop qr job", zap.Error(err))
			time.Sleep(w.cfg.RetryBackoff())
			continue
		}
		if job == nil {
			continue
		}

		if err := w.render(ctx, job); err != nil {
			w.retry(ctx, *job, err)
		}
	}
}

// render signs the room payload and writes the QR PNG, then flips the room
// to signed.
func (w *QRWorker) render(ctx context.Context, job *QRJob) error {
	room, err := w.rooms.GetByID(ctx, job.RoomID)
	if err != nil {
		return fmt.Errorf("load room %d: %w", job.RoomID, err)
	}

	dataenc := room.DataEnc
	if dataenc == "" {
		dataenc, err = w.signer.Encode(room)
		if err != nil {
			return fmt.Errorf("encode room %d: %w", room.ID, err)
		}
		if err := w.rooms.SetDataEnc(ctx, room.ID, dataenc); err != nil {
			return fmt.Errorf("store dataenc for room %d: %w", room.ID, err)
		}
	}

	target := w.signer.TargetURL(dataenc)
	if err := os.MkdirAll(w.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("prepare qr output dir: %w", err)
	}
	fileName := fmt.Sprintf("qr_code_%s_%s.png", room.RoomNo, room.BedNo)
	path := filepath.Join(w.cfg.OutputDir, fileName)
	if err := qrcode.WriteFile(target, qrcode.Low, 256, path); err != nil {
		return fmt.Errorf("write qr image for room %d: %w", room.ID, err)
	}

	if err := w.rooms.SetQRArtifact(ctx, room.ID, path); err != nil {
		return fmt.Errorf("mark room %d signed: %w", room.ID, err)
	}

	w.logger.Info("qr rendered", zap.Int64("room_id", room.ID), zap.String("path", path))
	return nil
}

func (w *QRWorker) retry(ctx context.Context, job QRJob, cause error) {
	job.Attempt++
	if job.Attempt >= w.cfg.MaxAttempts {
		w.logger.Error("qr job dropped after retries",
			zap.Int64("room_id", job.RoomID),
			zap.Int("attempts", job.Attempt),
			zap.Error(cause))
		return
	}

	w.logger.Warn("qr job failed, requeueing",
		zap.Int64("room_id", job.RoomID),
		zap.Int("attempt", job.Attempt),
		zap.Error(cause))

	select {
	case <-ctx.Done():
		return
	case <-time.After(w.cfg.RetryBackoff()):
	}
	if err := w.queue.push(ctx, job); err != nil {
		w.logger.Error("requeue qr job", zap.Int64("room_id", job.RoomID), zap.Error(err))
	}
}
