// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package finalize closes groups and sends the result notification.

Finalize runs after every vote mutation and on an explicit close. It
computes the group's status and, once voting is complete:

 1. Closes the group if it is still open, recording the winner (or none)
    and the decision time. The store only matches open groups, so this
    happens once even under concurrent votes.
 2. If there is a winner and no result has been sent, claims the
    result_sent_at stamp and, if this call won the claim, sends one
    message per member in parallel and waits for the batch. A missing
    restaurant row or failed sends still leave the stamp set.

Calling Finalize on a closed, notified group performs no writes and no
sends, and returns the current state.
*/
package finalize
