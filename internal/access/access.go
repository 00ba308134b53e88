// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package access computes which actions the UI offers for a given viewer.
//
// These rules gate affordances only: buttons and form fields appear or
// disappear, nothing more. Real access control happens in the backend,
// which re-checks every mutation; a client that skipped these checks would
// simply get an error response.
package access

import "github.com/jeranaias/helpdesk-tui/internal/model"

// isStaff reports whether the role carries operator powers.
func isStaff(role model.Role) bool {
	return role == model.RoleAdmin || role == model.RoleOperator
}

// CanEditTicket reports whether the viewer may open the ticket edit form.
// Staff always can; the author can while the ticket is still open.
func CanEditTicket(viewer *model.User, ticket *model.Ticket) bool {
	if viewer == nil || ticket == nil {
		return false
	}
	if isStaff(viewer.Role) {
		return true
	}
	return viewer.Role == model.RoleUser &&
		ticket.AuthorID == viewer.ID &&
		ticket.Status == model.StatusOpen
}

// CanChangeStatus reports whether the status selector is offered.
func CanChangeStatus(viewer *model.User) bool {
	return viewer != nil && isStaff(viewer.Role)
}

// CanDeleteTicket reports whether the delete-ticket action is offered.
func CanDeleteTicket(viewer *model.User) bool {
	return viewer != nil && viewer.Role == model.RoleAdmin
}

// CanAssignTicket reports whether the assignee field is offered.
func CanAssignTicket(viewer *model.User) bool {
	return viewer != nil && isStaff(viewer.Role)
}

// CanDeleteComment reports whether comment deletion is offered.
func CanDeleteComment(viewer *model.User) bool {
	return viewer != nil && isStaff(viewer.Role)
}

// CanManageUsers reports whether the admin page is reachable at all.
func CanManageUsers(viewer *model.User) bool {
	return viewer != nil && viewer.Role == model.RoleAdmin
}

// CanManageUser reports whether the role selector and delete action are
// offered for a specific row. A user never modifies or deletes their own
// account from the user list, admin or not.
func CanManageUser(viewer *model.User, target *model.User) bool {
	if !CanManageUsers(viewer) || target == nil {
		return false
	}
	return viewer.ID != target.ID
}
