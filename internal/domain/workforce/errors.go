package workforce

import "errors"

var ErrContractNotFound = errors.New("employee has no active contract")
