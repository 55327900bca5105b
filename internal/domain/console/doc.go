// Package console implements the console line discipline.
//
// The receive interrupt path feeds the console one byte at a time through
// Intr. Bytes are echoed and collected into an editable line; a newline,
// end-of-file or a full buffer commits the line and wakes any reader blocked
// in Read. Reads return at most one line per call.
//
// # Input buffer
//
// The input buffer is a 128-byte ring addressed by three free-running
// counters r <= w <= e:
//
//	[r, w)  committed, not yet read
//	[w, e)  the line being edited, invisible to readers
//
// The slot for a counter is counter % 128, and e-r never exceeds 128.
//
// # Editing keys
//
//	newline, ^M   end of line
//	^H, DEL       erase one character
//	^U            kill line
//	^D            end of file
//	^P            print process list
//	^W            recall older history line
//	^S            recall newer history line
//
// # History
//
// The last five committed lines are kept in a ring. ^W and ^S walk the ring
// and replace the line being edited with the selected entry. Walking newer
// past the newest entry leaves an empty line.
//
// # Example
//
//	table := devsw.NewTable()
//	tx := uart.New()
//	cons := console.New(tx).WithLogger(logger).WithDumper(procs)
//	if err := cons.Init(table); err != nil {
//	    return err
//	}
//	go tx.Serve(ctx, os.Stdin, cons.Intr)
package console
