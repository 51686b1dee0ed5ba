package shell

// AmigaDOS error codes used by the builtins.
const (
	ErrorBadNumber          = 115
	ErrorRequiredArgMissing = 116
	ErrorDirNotFound        = 204
	ErrorObjectNotFound     = 205
	ErrorObjectWrongType    = 212
)

var faultMessages = map[int]string{
	103: "not enough memory available",
	105: "task table full",
	114: "bad template",
	115: "bad number",
	116: "required argument missing",
	117: "value after keyword missing",
	118: "wrong number of arguments",
	120: "argument line invalid or too long",
	121: "file is not an object module",
	202: "object is in use",
	203: "object already exists",
	204: "directory not found",
	205: "object not found",
	209: "packet request type unknown",
	210: "object name invalid",
	212: "object not of required type",
	213: "disk not validated",
	214: "disk is write-protected",
	216: "directory not empty",
	218: "device (or volume) is not mounted",
	221: "disk is full",
	222: "file is protected from deletion",
	223: "file is write protected",
	224: "file is read protected",
	225: "not a valid DOS disk",
	226: "no disk in drive",
	232: "no more entries in directory",
	303: "buffer overflow",
	304: "***Break",
	305: "file not executable",
}

// Fault returns the message for an error code.
func Fault(code int) (string, bool) {
	msg, ok := faultMessages[code]
	return msg, ok
}
