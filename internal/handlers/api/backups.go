package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"storefront/internal/backupstore"
	"storefront/internal/db"
)

// BackupHandler handles snapshot and restore of queries and automated
// responses via JSON API (admin only).
type BackupHandler struct {
	db       *db.DB
	uploader backupstore.Uploader
}

// NewBackupHandler creates a new API backup handler. uploader may be nil, in
// which case backups only live in the database.
func NewBackupHandler(database *db.DB, uploader backupstore.Uploader) *BackupHandler {
	return &BackupHandler{db: database, uploader: uploader}
}

// Create snapshots queries and automated responses.
func (h *BackupHandler) Create(c fiber.Ctx) error {
	backup, err := h.db.CreateBackup(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create backup")
	}

	if h.uploader != nil {
		uri, err := h.uploader.Upload(c.Context(), backup)
		if err != nil {
			// The database copy is still usable.
			slog.Error("failed to upload backup", "backup_id", backup.ID, "error", err)
		} else if err := h.db.SetBackupObjectURI(c.Context(), backup.ID, uri); err != nil {
			slog.Error("failed to record backup location", "backup_id", backup.ID, "error", err)
		} else {
			backup.ObjectURI = &uri
		}
	}

	return jsonCreated(c, fiber.Map{
		"message":       "Backup created",
		"id":            backup.ID,
		"queryCount":    len(backup.Queries),
		"responseCount": len(backup.Responses),
		"objectUri":     backup.ObjectURI,
		"timestamp":     backup.CreatedAt,
	})
}

// List returns backup summaries, newest first.
func (h *BackupHandler) List(c fiber.Ctx) error {
	backups, err := h.db.ListBackups(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch backups")
	}
	return jsonSuccess(c, backups)
}

// Restore replaces all queries and automated responses with a snapshot.
func (h *BackupHandler) Restore(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid backup id")
	}

	backup, err := h.db.RestoreBackup(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrBackupNotFound) {
			return jsonError(c, fiber.StatusNotFound, "backup not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to restore backup")
	}

	slog.Info("backup restored", "backup_id", backup.ID)
	return jsonSuccess(c, fiber.Map{
		"message":       "Backup restored",
		"id":            backup.ID,
		"queryCount":    len(backup.Queries),
		"responseCount": len(backup.Responses),
	})
}
