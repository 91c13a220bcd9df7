package wire

// OpCode identifies a protocol command. The high byte is the protocol
// magic number (0xC8), the low byte the command itself. Both bytes travel
// on the wire, so the values here must match the server version exactly.
type OpCode uint16

const (
	// OpPut stores a record, overwriting an existing one.
	//
	// Wire format: code(16) keylen(32) vallen(32) key value
	// Response: status [no payload]
	OpPut OpCode = 0xC810

	// OpPutKeep stores a record only if the key does not exist yet.
	OpPutKeep OpCode = 0xC811

	// OpPutCat appends the value to an existing record (creates it if absent).
	OpPutCat OpCode = 0xC812

	// OpPutShl appends the value and shifts the record left to the given
	// width.
	//
	// Wire format: code(16) keylen(32) vallen(32) width(32) key value
	OpPutShl OpCode = 0xC813

	// OpPutNR stores a record without waiting for a response. The server
	// sends none; the caller must not read after this command.
	OpPutNR OpCode = 0xC818

	// OpOut removes a record.
	//
	// Wire format: code(16) keylen(32) key
	OpOut OpCode = 0xC820

	// OpGet retrieves the value of a record.
	//
	// Response: status vallen(32) value
	OpGet OpCode = 0xC830

	// OpMGet retrieves multiple records at once.
	//
	// Wire format: code(16) numkeys(32) [keylen(32) key]*
	// Response: status count(32) [keylen(32) vallen(32) key value]*
	OpMGet OpCode = 0xC831

	// OpVSiz reports the size of the value of a record.
	//
	// Response: status vallen(32)
	OpVSiz OpCode = 0xC838

	// OpIterInit initializes the key iterator. No payload either way.
	OpIterInit OpCode = 0xC850

	// OpIterNext yields the next key of the iterator.
	//
	// Response: status keylen(32) key
	OpIterNext OpCode = 0xC851

	// OpFwmKeys lists keys matching a prefix.
	//
	// Wire format: code(16) prefixlen(32) maxresults(32) prefix
	// Response: status count(32) [keylen(32) key]*
	OpFwmKeys OpCode = 0xC858

	// OpAddInt atomically adds a signed 32-bit delta to a record.
	//
	// Wire format: code(16) keylen(32) delta(32) key
	// Response: status sum(32)
	OpAddInt OpCode = 0xC860

	// OpAddDouble atomically adds a real number to a record. The number is
	// carried as separate integral and fractional 64-bit words.
	//
	// Wire format: code(16) keylen(32) integ(64) fract(64) key
	// Response: status integ(64) fract(64)
	OpAddDouble OpCode = 0xC861

	// OpExt calls a server-side extension function.
	//
	// Wire format: code(16) funclen(32) opts(32) keylen(32) vallen(32) func key value
	// Response: status vallen(32) value
	OpExt OpCode = 0xC868

	// OpSync flushes updates to the device. No payload either way.
	OpSync OpCode = 0xC870

	// OpOptimize optimizes the database with the given tuning parameters.
	//
	// Wire format: code(16) paramslen(32) params
	OpOptimize OpCode = 0xC871

	// OpVanish removes every record. No payload either way.
	OpVanish OpCode = 0xC872

	// OpCopy copies the database file to the given path on the server host.
	OpCopy OpCode = 0xC873

	// OpRestore restores the database from the update log.
	//
	// Wire format: code(16) pathlen(32) timestamp(64) path
	OpRestore OpCode = 0xC874

	// OpSetMst sets the replication master of the server.
	//
	// Wire format: code(16) hostlen(32) port(32) host
	OpSetMst OpCode = 0xC878

	// OpRNum reports the number of records.
	//
	// Response: status count(64)
	OpRNum OpCode = 0xC880

	// OpSize reports the size of the database.
	//
	// Response: status size(64)
	OpSize OpCode = 0xC881

	// OpStat reports the status message of the server as one blob of
	// newline-delimited "name TAB value" lines.
	//
	// Response: status blen(32) blob
	OpStat OpCode = 0xC888

	// OpMisc calls a versatile server function by name.
	//
	// Wire format: code(16) funclen(32) opts(32) argcount(32) func [arglen(32) arg]*
	// Response: status count(32) [elemlen(32) elem]*
	OpMisc OpCode = 0xC890
)

// Option flags for OpExt.
const (
	// ExtLockRecord locks the record the extension operates on.
	ExtLockRecord int32 = 1 << 0

	// ExtLockGlobal locks the whole database during the extension call.
	ExtLockGlobal int32 = 1 << 1
)

// Option flags for OpMisc.
const (
	// MiscNoUpdateLog omits the update log for the call. This is the only
	// difference between the updating and non-updating misc variants.
	MiscNoUpdateLog int32 = 1 << 0
)

// StatusOK is the leading response byte of every successful exchange.
// Any other value is a server-defined error code, opaque to the client.
const StatusOK = 0
