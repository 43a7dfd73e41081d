package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"chatlinks/internal/domain"
)

// BadgerRepository implements the Repository interface using BadgerDB.
type BadgerRepository struct {
	db  *badger.DB
	log logrus.FieldLogger
}

// NewBadgerRepository opens (or creates) the database at dbPath.
func NewBadgerRepository(dbPath string, logger logrus.FieldLogger) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dbPath, err)
	}
	logger.WithField("path", dbPath).Info("BadgerDB opened")

	return &BadgerRepository{
		db:  db,
		log: logger.WithField("component", "repository"),
	}, nil
}

// Close closes the BadgerDB database connection.
func (r *BadgerRepository) Close() error {
	if err := r.db.Close(); err != nil {
		r.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	r.log.Info("BadgerDB closed")
	return nil
}

// Keys:
//
//	meta:{name}                     archive metadata
//	archive:{name}:msg:{index}      one message, index zero padded so that
//	                                prefix iteration follows archive order
const metaPrefix = "meta:"

func metaKey(name string) []byte {
	return []byte(metaPrefix + name)
}

func messagePrefix(name string) []byte {
	return []byte(fmt.Sprintf("archive:%s:msg:", name))
}

func messageKey(name string, index int) []byte {
	return []byte(fmt.Sprintf("archive:%s:msg:%010d", name, index))
}

// SaveArchive stores messages under name, replacing the previous archive.
func (r *BadgerRepository) SaveArchive(ctx context.Context, name string, messages []domain.Message) error {
	log := r.log.WithFields(logrus.Fields{
		"archive":       name,
		"message_count": len(messages),
	})
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// The metadata key is what makes an archive visible. It is removed before
	// the messages are touched and written back only once every message is
	// flushed, so a failed save leaves no archive rather than a partial one.
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(metaKey(name))
	})
	if err != nil {
		log.WithError(err).Error("Failed to remove previous archive metadata")
		return fmt.Errorf("failed to replace archive %s: %w", name, err)
	}
	if err := r.db.DropPrefix(messagePrefix(name)); err != nil {
		log.WithError(err).Error("Failed to drop previous archive messages")
		return fmt.Errorf("failed to replace archive %s: %w", name, err)
	}

	// Archives can exceed a single transaction, so messages go through a batch.
	wb := r.db.NewWriteBatch()
	defer wb.Cancel()
	for i, m := range messages {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("Archive save interrupted")
			return err
		}
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal message %d: %w", i, err)
		}
		if err := wb.Set(messageKey(name, i), b); err != nil {
			log.WithError(err).Error("Failed to write message batch")
			return fmt.Errorf("failed to save archive %s: %w", name, err)
		}
	}
	if err := wb.Flush(); err != nil {
		log.WithError(err).Error("Failed to flush message batch")
		return fmt.Errorf("failed to save archive %s: %w", name, err)
	}

	info, err := json.Marshal(ArchiveInfo{Name: name, MessageCount: len(messages), ImportedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal archive info: %w", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(metaKey(name), info)
	})
	if err != nil {
		log.WithError(err).Error("Failed to save archive metadata")
		return fmt.Errorf("failed to save archive %s: %w", name, err)
	}

	log.Info("Archive saved")
	return nil
}

// LoadMessages returns the messages of archive name in order.
func (r *BadgerRepository) LoadMessages(ctx context.Context, name string) ([]domain.Message, error) {
	log := r.log.WithField("archive", name)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var messages []domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(metaKey(name)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrArchiveNotFound
			}
			return err
		}

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := messagePrefix(name)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var m domain.Message
				if err := json.Unmarshal(val, &m); err != nil {
					return fmt.Errorf("failed to unmarshal message for key %s: %w", string(item.Key()), err)
				}
				messages = append(messages, m)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrArchiveNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrArchiveNotFound, name)
		}
		log.WithError(err).Error("Failed to load archive messages")
		return nil, fmt.Errorf("failed to load archive %s: %w", name, err)
	}

	if messages == nil {
		messages = []domain.Message{}
	}
	log.WithField("message_count", len(messages)).Debug("Archive loaded")
	return messages, nil
}

// ListArchives returns the metadata of every stored archive sorted by name.
func (r *BadgerRepository) ListArchives(ctx context.Context) ([]ArchiveInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	archives := []ArchiveInfo{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(metaPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var info ArchiveInfo
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &info)
			})
			if err != nil {
				return fmt.Errorf("failed to read archive info: %w", err)
			}
			archives = append(archives, info)
		}
		return nil
	})
	if err != nil {
		r.log.WithError(err).Error("Failed to list archives")
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].Name < archives[j].Name
	})
	return archives, nil
}

// DeleteArchive removes archive name and its messages.
func (r *BadgerRepository) DeleteArchive(ctx context.Context, name string) error {
	log := r.log.WithField("archive", name)
	if err := ctx.Err(); err != nil {
		return err
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(metaKey(name))
	})
	if err == nil {
		err = r.db.DropPrefix(messagePrefix(name))
	}
	if err != nil {
		log.WithError(err).Error("Failed to delete archive")
		return fmt.Errorf("failed to delete archive %s: %w", name, err)
	}

	log.Info("Archive deleted")
	return nil
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
