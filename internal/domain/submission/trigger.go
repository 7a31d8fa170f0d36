package submission

// Trigger is an event that moves a submission between states
type Trigger string

const (
	TriggerDispatch Trigger = "DISPATCH"
	TriggerSucceed  Trigger = "SUCCEED"
	TriggerFail     Trigger = "FAIL"
	TriggerReset    Trigger = "RESET"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
