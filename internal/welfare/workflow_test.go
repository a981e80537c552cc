package welfare

import (
	"testing"

	welfareerrors "go-welfare/internal/welfare/errors"

	"github.com/stretchr/testify/assert"
)

func TestTransition_ApprovalChains(t *testing.T) {
	tests := []struct {
		name    string
		in      TransitionInput
		want    Status
		wantErr error
	}{
		{
			name: "manager approves pending_manager",
			in:   TransitionInput{Current: StatusPendingManager, Role: RoleManager, Action: ActionApprove},
			want: StatusPendingHR,
		},
		{
			name: "hr approves without special fork",
			in:   TransitionInput{Current: StatusPendingHR, Role: RoleHR, Action: ActionApprove},
			want: StatusPendingAccounting,
		},
		{
			name: "hr approves with special fork",
			in:   TransitionInput{Current: StatusPendingHR, Role: RoleHR, Action: ActionApprove, RequiresSpecialApproval: true},
			want: StatusPendingSpecialApproval,
		},
		{
			name: "special approver approves",
			in:   TransitionInput{Current: StatusPendingSpecialApproval, Role: RoleSpecialApprover, Action: ActionApprove},
			want: StatusPendingAccounting,
		},
		{
			name: "accounting completes",
			in:   TransitionInput{Current: StatusPendingAccounting, Role: RoleAccounting, Action: ActionApprove},
			want: StatusCompleted,
		},
		{
			name:    "wrong role at manager stage",
			in:      TransitionInput{Current: StatusPendingManager, Role: RoleHR, Action: ActionApprove},
			wantErr: welfareerrors.ErrRoleNotAllowed,
		},
		{
			name:    "employee cannot approve own stage",
			in:      TransitionInput{Current: StatusPendingAccounting, Role: RoleEmployee, Action: ActionApprove},
			wantErr: welfareerrors.ErrRoleNotAllowed,
		},
		{
			name:    "approve on terminal status",
			in:      TransitionInput{Current: StatusCompleted, Role: RoleAccounting, Action: ActionApprove},
			wantErr: welfareerrors.ErrRequestFinalized,
		},
		{
			name:    "approve while pending_revision",
			in:      TransitionInput{Current: StatusPendingRevision, Role: RoleManager, Action: ActionApprove},
			wantErr: welfareerrors.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_Rejections(t *testing.T) {
	tests := []struct {
		current Status
		role    Role
		want    Status
	}{
		{StatusPendingManager, RoleManager, StatusRejectedManager},
		{StatusPendingHR, RoleHR, StatusRejectedHR},
		{StatusPendingSpecialApproval, RoleSpecialApprover, StatusRejectedSpecialApproval},
		{StatusPendingAccounting, RoleAccounting, StatusRejectedAccounting},
	}

	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			got, err := Transition(TransitionInput{Current: tt.current, Role: tt.role, Action: ActionReject})
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Terminal())
		})
	}
}

func TestTransition_RevisionRoundTrip(t *testing.T) {
	// HR sends the request back for revision.
	next, err := Transition(TransitionInput{Current: StatusPendingHR, Role: RoleHR, Action: ActionRequestRevision})
	assert.NoError(t, err)
	assert.Equal(t, StatusPendingRevision, next)

	// The requester resubmits and the request resumes at the stage it left.
	next, err = Transition(TransitionInput{
		Current:      StatusPendingRevision,
		Role:         RoleEmployee,
		Action:       ActionResubmit,
		ResumeStatus: StatusPendingHR,
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusPendingHR, next)
}

func TestTransition_ResubmitGuards(t *testing.T) {
	_, err := Transition(TransitionInput{Current: StatusPendingHR, Role: RoleEmployee, Action: ActionResubmit})
	assert.ErrorIs(t, err, welfareerrors.ErrInvalidTransition)

	_, err = Transition(TransitionInput{
		Current:      StatusPendingRevision,
		Role:         RoleManager,
		Action:       ActionResubmit,
		ResumeStatus: StatusPendingHR,
	})
	assert.ErrorIs(t, err, welfareerrors.ErrRoleNotAllowed)

	_, err = Transition(TransitionInput{Current: StatusPendingRevision, Role: RoleEmployee, Action: ActionResubmit})
	assert.ErrorIs(t, err, welfareerrors.ErrResumeStageMissing)
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusPendingManager, InitialStatus(TypeWedding))
	assert.Equal(t, StatusPendingManager, InitialStatus(TypeTraining))
	assert.Equal(t, StatusPendingAccounting, InitialStatus(TypeAdvance))
	assert.Equal(t, StatusPendingAccounting, InitialStatus(TypeExpenseClearing))
}

// Walks complete request lifecycles through the transition function the way
// the service drives it.
func TestWorkflow_FullPaths(t *testing.T) {
	walk := func(t *testing.T, start Status, special bool, steps []struct {
		role Role
		want Status
	}) {
		current := start
		for _, step := range steps {
			next, err := Transition(TransitionInput{
				Current:                 current,
				Role:                    step.role,
				Action:                  ActionApprove,
				RequiresSpecialApproval: special,
			})
			assert.NoError(t, err)
			assert.Equal(t, step.want, next)
			current = next
		}
		assert.Equal(t, StatusCompleted, current)
	}

	t.Run("welfare without special approval", func(t *testing.T) {
		walk(t, StatusPendingManager, false, []struct {
			role Role
			want Status
		}{
			{RoleManager, StatusPendingHR},
			{RoleHR, StatusPendingAccounting},
			{RoleAccounting, StatusCompleted},
		})
	})

	t.Run("training over threshold", func(t *testing.T) {
		walk(t, StatusPendingManager, true, []struct {
			role Role
			want Status
		}{
			{RoleManager, StatusPendingHR},
			{RoleHR, StatusPendingSpecialApproval},
			{RoleSpecialApprover, StatusPendingAccounting},
			{RoleAccounting, StatusCompleted},
		})
	})

	t.Run("accounting cash movement", func(t *testing.T) {
		walk(t, StatusPendingAccounting, false, []struct {
			role Role
			want Status
		}{
			{RoleAccounting, StatusCompleted},
		})
	})
}
