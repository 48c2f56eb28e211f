package server

import (
	"errors"

	"github.com/Daskott/rolodex/colors"
	"github.com/Daskott/rolodex/server/gstorage"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	"github.com/Daskott/rolodex/utils"
	"github.com/go-co-op/gocron"
)

const BACKUP_JOB_TAG = "backupSqliteDb"

// backupJob copies the sqlite db to google storage on a schedule, and pulls
// the last copy down when the server starts without a local db.
type backupJob struct {
	storage    *gstorage.GStorage
	dbFilePath string
	cronExpr   string
}

// newBackupJob returns nil when backups are disabled.
func newBackupJob(config shared.GoogleConfig, dbFilePath string) (*backupJob, error) {
	if !config.Storage.EnableSqliteBackupAndSync {
		return nil, nil
	}

	storage, err := gstorage.NewGStorage(
		config.ApplicationCredentials,
		config.Storage.Bucket,
		config.Storage.Prefix,
	)
	if err != nil {
		return nil, err
	}

	return &backupJob{
		storage:    storage,
		dbFilePath: dbFilePath,
		cronExpr:   config.Storage.SqliteBackupSchedule,
	}, nil
}

// restore downloads the backed up db unless a local one already exists.
func (job *backupJob) restore() error {
	if utils.FileExist(job.dbFilePath) {
		return nil
	}

	logg.Infof("No local db found, restoring %v from google storage", job.storage.ObjectName(job.dbFilePath))
	err := job.storage.DownloadFile(job.dbFilePath)
	if errors.Is(err, gstorage.ErrObjectNotExist) {
		logg.Info("No db backup found, starting with a new db")
		return nil
	}

	return err
}

func (job *backupJob) schedule(scheduler *gocron.Scheduler) error {
	_, err := scheduler.Cron(job.cronExpr).Tag(BACKUP_JOB_TAG).Do(job.run)
	return err
}

func (job *backupJob) run() {
	err := models.CheckpointDB()
	if err != nil {
		logg.Error(colors.Red("Unable to checkpoint db before backup: ", err))
		return
	}

	err = job.storage.UploadFile(job.dbFilePath)
	if err != nil {
		logg.Error(colors.Red("Unable to backup db: ", err))
	}
}
