/*
Package session hosts many stages behind one process.

Stages are single-threaded, so every access goes through Manager.WithStage,
which holds a reference-counted per-stage mutex and, when configured, a
distributed lock so replicas sharing an ownership registry do not drive the
same stage at once.
*/
package session
