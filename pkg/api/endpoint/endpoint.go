package endpoint

import (
	"reflect"

	"stockwatch-backend/pkg/config"
	"stockwatch-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/valkey-io/valkey-go"
	"gorm.io/gorm"
)

var validate = validator.New()

// SetupEndpoint pulls the shared dependencies out of the gin context and, for
// non-any T, binds and validates the JSON request body. All problems are
// collected so the controller can report them in one response.
func SetupEndpoint[T any](c *gin.Context) (*T, *logger.Logger, *gorm.DB, *config.Config, valkey.Client, []string) {
	var errs []string

	rawLogger, ok := c.Get("logger")
	if !ok {
		errs = append(errs, "Logger not found in context")
	}
	log, ok := rawLogger.(*logger.Logger)
	if !ok {
		errs = append(errs, "Logger is not of type *logger.Logger")
	}

	rawDb, ok := c.Get("db")
	if !ok {
		errs = append(errs, "Database not found in context")
	}
	db, ok := rawDb.(*gorm.DB)
	if !ok {
		errs = append(errs, "Database is not of type *gorm.DB")
	}

	rawCfg, ok := c.Get("config")
	if !ok {
		errs = append(errs, "Config not found in context")
	}
	cfg, ok := rawCfg.(*config.Config)
	if !ok {
		errs = append(errs, "Config is not of type *config.Config")
	}

	var valkeyClient valkey.Client
	if rawValkey, ok := c.Get("valkey"); ok {
		valkeyClient, _ = rawValkey.(valkey.Client)
	}

	var payload T
	if reflect.TypeFor[T]().Kind() != reflect.Interface {
		if err := c.ShouldBindJSON(&payload); err != nil {
			errs = append(errs, "Could not bind request body: "+err.Error())
		} else if err := validate.Struct(payload); err != nil {
			errs = append(errs, err.Error())
		}
	}

	return &payload, log, db, cfg, valkeyClient, errs
}
