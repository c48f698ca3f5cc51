package tasks

// DefineTasks registers all available tasks
func DefineTasks() {
	// Billing sweeps, in their daily order
	RegisterHandler(MarkOverdueTask.TaskID(), MarkOverdueTask.HandleExecution)
	RegisterHandler(ApplyLateFeesTask.TaskID(), ApplyLateFeesTask.HandleExecution)
	RegisterHandler(ProcessDeductionsTask.TaskID(), ProcessDeductionsTask.HandleExecution)

	// Notification sweeps
	RegisterHandler(PaymentRemindersTask.TaskID(), PaymentRemindersTask.HandleExecution)
	RegisterHandler(RentalEndingTask.TaskID(), RentalEndingTask.HandleExecution)
	RegisterHandler(OverdueAlertsTask.TaskID(), OverdueAlertsTask.HandleExecution)

	// Orchestrator running all of the above in order
	RegisterHandler(DailyBillingTask.TaskID(), DailyBillingTask.HandleExecution)

	// Worker smoke test
	RegisterHandler(LogInfoTask.TaskID(), LogInfoTask.HandleExecution)
}
