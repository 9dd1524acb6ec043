// Package services contains the agent's application services: the report
// façade every collaborator calls, the sync engine that drains the
// pending-mutation queue, the catalog and session caches, and report
// finalization.
//
// The common shape: write locally first, attempt the remote best-effort,
// fall back to the queue or the local cache. Remote-tier errors never
// propagate raw to callers; local-store errors surface only on the primary
// save path where there is nothing left to fall back to.
package services
