package cmd

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/vault/internal/secrets"
	"github.com/PolarWolf314/vault/internal/utils"
	"github.com/PolarWolf314/vault/internal/workflows"
)

// passwordReader obtains the vault password. Replaced in tests.
var passwordReader = readPassword

// readPassword reads the password from stdin with --password-stdin, from the
// terminal otherwise. When stdin carries a secret value the prompt goes to
// the controlling terminal instead.
func readPassword(stdinBusy bool) ([]byte, error) {
	if passwordStdin {
		if stdinBusy {
			return nil, fmt.Errorf("--password-stdin cannot be combined with a value read from stdin")
		}
		Logger.Debugf("Reading password from stdin")
		return utils.ReadPasswordLine(os.Stdin)
	}
	if stdinBusy || !utils.IsTerminal() {
		Logger.Debugf("Reading password from the controlling terminal")
		return utils.ReadPassphraseFromTTY("Vault password: ")
	}
	return utils.ReadPassphrase("Vault password: ")
}

// openSession loads settings and, when withPassword is set, prompts for the
// password. The caller must Close the session.
func openSession(withPassword, stdinBusy bool) (*workflows.Session, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	var password []byte
	if withPassword {
		password, err = passwordReader(stdinBusy)
		if err != nil {
			return nil, err
		}
		if err := secrets.ValidatePassword(password); err != nil {
			secrets.Zero(password)
			return nil, err
		}
	}

	s := workflows.NewSession(settings, password, Logger)
	secrets.Zero(password)
	return s, nil
}
