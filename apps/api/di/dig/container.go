package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/KS-2006-TD/LMS/apps/api/echo"
	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/auth"
	"github.com/KS-2006-TD/LMS/core/lms"
	"github.com/KS-2006-TD/LMS/core/user"
	emailsvc "github.com/KS-2006-TD/LMS/services/email"
	logsvc "github.com/KS-2006-TD/LMS/services/logger"
	"github.com/KS-2006-TD/LMS/storage/database"
	"github.com/KS-2006-TD/LMS/storage/files"
)

type StoreLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storeLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStoreLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStore(conf *core.Config, loggerParam StoreLoggerParam) database.Store {
	setUp := func(ctx context.Context) (database.Store, error) {
		store, err := database.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err = database.Init(ctx, store); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	}

	store, err := setUp(context.Background())
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up record store: %v", err), err)
	}
	return store
}

func newFileStorage(conf *core.Config, logger core.Logger) lms.FileStorage {
	fs, err := files.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up file storage: %v", err), err)
	}
	return fs
}

// newEmailService returns nil when notifications are not mailed.
func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if !conf.EmailNotifications {
		return nil
	}
	if conf.Debug {
		return emailsvc.NewConsoleService(conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func newService(store database.Store, fs lms.FileStorage, mailSvc core.EmailService, logger core.Logger) *lms.Service {
	return lms.NewService(store, fs, mailSvc, logger)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStoreLogger, dig.Name("storeLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newFileStorage))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(auth.NewIssuer))
	must(c.Provide(newService))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
