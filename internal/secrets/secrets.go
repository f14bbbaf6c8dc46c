package secrets

import (
	"errors"
	"regexp"
	"strings"

	"offer-export/internal/config"
	"offer-export/internal/platform/paths"

	"github.com/zalando/go-keyring"
)

var ErrNotFound = errors.New("secret not found")
var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._@-]+`)

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	key = unsafeKeyChars.ReplaceAllString(key, "_")
	if key == "" {
		return "empty"
	}
	return key
}

func Get(key string) ([]byte, error) {
	v, err := keyring.Get(paths.AppName, sanitizeKey(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(v), nil
}

func Set(key string, value []byte) error {
	return keyring.Set(paths.AppName, sanitizeKey(key), string(value))
}

func DBPasswordKey(db config.DBConfig) string {
	return "db_password_" + string(db.Driver) + "_" + db.User + "@" + db.Host
}

// ApplyDBPassword is a no-op unless the config opts into the keyring. Then an
// explicit password is remembered for later runs and an empty one is filled
// from the keyring. A missing entry leaves the password empty so the driver
// reports the failure.
func ApplyDBPassword(db *config.DBConfig) error {
	if db == nil || !db.PasswordFromKeyring {
		return nil
	}

	key := DBPasswordKey(*db)
	if db.Password != "" {
		return Set(key, []byte(db.Password))
	}

	v, err := Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	db.Password = string(v)
	return nil
}
