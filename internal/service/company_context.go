package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/tribaldesk-backend/internal/logger"
)

// CompanyContext хранит текст data/company_context.md, который
// дописывается к системной инструкции чата.
type CompanyContext struct {
	path string

	mu      sync.RWMutex
	content string
}

// NewCompanyContext читает файл один раз. Отсутствующий файл даёт пустой
// контекст, остальные ошибки чтения возвращаются.
func NewCompanyContext(path string) (*CompanyContext, error) {
	cc := &CompanyContext{path: filepath.Clean(path)}
	if err := cc.Reload(); err != nil {
		return nil, err
	}
	return cc, nil
}

// Text возвращает текущий контекст.
func (cc *CompanyContext) Text() string {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.content
}

// Reload перечитывает файл с диска.
func (cc *CompanyContext) Reload() error {
	data, err := os.ReadFile(cc.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("service: чтение контекста компании: %w", err)
		}
		data = nil
	}

	cc.mu.Lock()
	cc.content = string(data)
	cc.mu.Unlock()
	return nil
}

// Watch следит за каталогом файла и перечитывает контекст при изменениях,
// пока не отменён ctx. Следим за каталогом, а не за файлом: редакторы
// сохраняют через rename, и наблюдение за самим файлом теряется.
func (cc *CompanyContext) Watch(ctx context.Context) error {
	log := logger.Component("company_context").WithField("path", cc.path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("service: создание watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(cc.path)
	if err := w.Add(dir); err != nil {
		log.WithError(err).Warn("Каталог контекста недоступен, перезагрузка отключена")
		<-ctx.Done()
		return nil
	}

	log.Info("Наблюдение за контекстом компании запущено")

	for {
		select {
		case <-ctx.Done():
			log.Info("Наблюдение за контекстом компании остановлено")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != cc.path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := cc.Reload(); err != nil {
				log.WithError(err).Warn("Не удалось перечитать контекст компании")
				continue
			}
			log.WithFields(logrus.Fields{
				"op":    ev.Op.String(),
				"bytes": len(cc.Text()),
			}).Info("Контекст компании перечитан")

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(watchErr).Error("Ошибка watcher")
		}
	}
}
