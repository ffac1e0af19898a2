package errs

import "errors"

// Common sentinel errors for cross-layer signaling. The HTTP layer maps these
// to status codes; the message text is what the client shows the user.
var (
	ErrNotFound            = errors.New("not_found")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")
	// ErrInvalidTransaction covers missing amount/type/wallet on a save.
	ErrInvalidTransaction = errors.New("invalid transaction data")
	// ErrInsufficientBalance rejects an expense that would drive a wallet negative.
	ErrInsufficientBalance = errors.New("selected wallet does not have enough balance")
	// ErrDeleteWouldOverdraw rejects deleting an income transaction whose removal
	// would drive the wallet negative.
	ErrDeleteWouldOverdraw = errors.New("you cannot delete this transaction, it would overdraw the wallet")
	// ErrUploadFailed signals the image upload collaborator failed; the enclosing
	// save is aborted.
	ErrUploadFailed = errors.New("failed to upload image")
	ErrInvalid      = errors.New("invalid")
)
