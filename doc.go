/* Package main: goforth -- an interactive Forth

A Forth system is two interpreters sharing one input stream.  The outer
interpreter reads tokens and either executes them immediately or, between ':'
and ';', compiles them into the definition under construction.  The inner
interpreter runs compiled definitions: threaded code, dispatched opcode by
opcode out of the same heap the compiler emits into.

The dictionary lives in that heap as a linked list of word headers, newest
first.  A header is a link cell, a flags|length cell, the name one code point
per cell, and a code field holding either a machine primitive or a thread
descriptor over a heap range.  Built-in primitives and user definitions are
looked up and executed the same way; the machine is extended from inside by
defining words, and from outside through AddPrimitive.

Control structures are not special-cased by the outer interpreter.  IF, ELSE,
THEN, the BEGIN family, and the DO loops are ordinary dictionary words marked
IMMEDIATE: when met during compilation they run at once and rewrite the open
definition's emission buffer, leaving branches to be back-patched when the
matching closer arrives.  CREATE and DOES> split a defining word into a
build-time part and a runtime part; executing the defining word installs the
runtime part as the behavior of the word it just created.  That is enough to
write CONSTANT and VARIABLE in Forth itself, and the prelude does.

Errors unwind to the REPL, which prints "ERR: <message>", unlinks any
half-built definition, clears both stacks, and prompts again.
*/
package main
