//go:build !windows

package launch

import "errors"

func shellExecute(string) error {
	return errors.New("ShellExecute is only available on windows")
}
