package services

import (
	"fmt"

	"food_store/internal/apperror"
	"food_store/internal/models"
)

type transitionKey struct {
	from models.OrderStatus
	to   models.OrderStatus
	role models.Role
}

// transitionGraph is the single source of truth for who may move an order where.
// Admins move forward (skipping steps is allowed) or cancel; customers only confirm
// delivery. Nobody leaves a terminal status.
var transitionGraph = map[models.Role]map[models.OrderStatus][]models.OrderStatus{
	models.RoleAdmin: {
		models.OrderPending:        {models.OrderProcessing, models.OrderPreparing, models.OrderOutForDelivery, models.OrderCancelled},
		models.OrderProcessing:     {models.OrderPreparing, models.OrderOutForDelivery, models.OrderCancelled},
		models.OrderPreparing:      {models.OrderOutForDelivery, models.OrderCancelled},
		models.OrderOutForDelivery: {models.OrderCancelled},
	},
	models.RoleCustomer: {
		models.OrderOutForDelivery: {models.OrderDelivered},
	},
}

var allowedTransitions = buildTransitionSet(transitionGraph)

func buildTransitionSet(graph map[models.Role]map[models.OrderStatus][]models.OrderStatus) map[transitionKey]struct{} {
	set := make(map[transitionKey]struct{})
	for role, edges := range graph {
		for from, tos := range edges {
			for _, to := range tos {
				set[transitionKey{from: from, to: to, role: role}] = struct{}{}
			}
		}
	}
	return set
}

// CanTransition reports whether role may move an order from one status to another.
func CanTransition(from, to models.OrderStatus, role models.Role) bool {
	_, ok := allowedTransitions[transitionKey{from: from, to: to, role: role}]
	return ok
}

// evaluateTransition classifies a requested status change. changed is false for an
// idempotent re-apply of the current status.
func evaluateTransition(from, to models.OrderStatus, role models.Role) (changed bool, err error) {
	if !to.Valid() {
		return false, apperror.Validation(apperror.CodeInvalidStatus, fmt.Sprintf("unknown status %q", to))
	}
	if !role.Valid() {
		return false, apperror.Authorization(apperror.CodeRoleNotPermitted, fmt.Sprintf("role %q may not change order status", role))
	}
	if role == models.RoleAdmin && to == models.OrderDelivered {
		return false, apperror.Authorization(apperror.CodeAdminCannotConfirmDelivery, "only the customer can confirm delivery")
	}
	if from.Terminal() {
		return false, apperror.Conflict(apperror.CodeOrderTerminal, fmt.Sprintf("order is already %s", from.Label()))
	}
	if from == to {
		return false, nil
	}
	if CanTransition(from, to, role) {
		return true, nil
	}
	if role == models.RoleCustomer && to != models.OrderDelivered {
		return false, apperror.Authorization(apperror.CodeCustomerTransitionForbidden, "customers can only confirm delivery")
	}
	return false, apperror.Conflict(apperror.CodeInvalidTransition,
		fmt.Sprintf("cannot move order from %s to %s", from.Label(), to.Label()))
}
