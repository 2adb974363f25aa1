package v1

import (
	"errors"
	"strconv"
	"time"

	"github.com/Behyna/pawn-services/internal/api/contract"
	"github.com/Behyna/pawn-services/internal/api/middleware"
	"github.com/Behyna/pawn-services/internal/api/validator"
	"github.com/Behyna/pawn-services/internal/constants"
	"github.com/Behyna/pawn-services/internal/metrics"
	"github.com/Behyna/pawn-services/internal/model"
	"github.com/Behyna/pawn-services/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	logger             *zap.Logger
	transactionService service.TransactionService
	paymentService     service.PaymentService
	extensionService   service.ExtensionService
	statusService      service.StatusService
	balanceService     service.BalanceService
	reversalService    service.ReversalService
	XValidator         validator.IXValidator
	metrics            *metrics.Metrics
}

func NewHandler(logger *zap.Logger, transactionService service.TransactionService, paymentService service.PaymentService,
	extensionService service.ExtensionService, statusService service.StatusService, balanceService service.BalanceService,
	reversalService service.ReversalService, XValidator validator.IXValidator, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:             logger,
		transactionService: transactionService,
		paymentService:     paymentService,
		extensionService:   extensionService,
		statusService:      statusService,
		balanceService:     balanceService,
		reversalService:    reversalService,
		XValidator:         XValidator,
		metrics:            metrics,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) CreateTransaction(c *fiber.Ctx) error {
	var handlerRequest CreateTransactionRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		return c.JSON(responseError)
	}

	cmd := service.CreateTransactionCommand{
		CustomerID:            handlerRequest.CustomerID,
		LoanAmount:            handlerRequest.LoanAmount,
		MonthlyInterestAmount: handlerRequest.MonthlyInterestAmount,
		CreatedBy:             middleware.Staff(c),
	}
	if handlerRequest.PawnDate != "" {
		pawnDate, err := time.Parse(time.DateOnly, handlerRequest.PawnDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "pawn_date must be YYYY-MM-DD")
		}
		cmd.PawnDate = &pawnDate
	}

	txn, err := h.transactionService.CreateTransaction(c.UserContext(), cmd)
	if err != nil {
		return h.fail("create_transaction", err)
	}

	h.metrics.RecordTransactionCreated()

	return c.Status(fiber.StatusCreated).JSON(contract.Success(constants.TransactionCreated, NewTransactionResponse(txn)))
}

func (h *Handler) GetTransaction(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	details, err := h.transactionService.GetTransaction(c.UserContext(), id)
	if err != nil {
		return h.fail("get_transaction", err)
	}

	return c.JSON(contract.Success(constants.TransactionRetrieved, NewTransactionDetailsResponse(details)))
}

func (h *Handler) GetBalance(c *fiber.Ctx) error {
	start := time.Now()

	id, err := paramID(c)
	if err != nil {
		return err
	}

	asOf, err := queryDate(c, "as_of")
	if err != nil {
		return err
	}

	balance, err := h.balanceService.CalculateBalance(c.UserContext(), id, asOf)
	if err != nil {
		h.metrics.RecordBalanceCalculation("error", time.Since(start))
		return h.fail("calculate_balance", err)
	}

	h.metrics.RecordBalanceCalculation("success", time.Since(start))

	return c.JSON(contract.Success(constants.BalanceRetrieved, balance))
}

func (h *Handler) GetPayoff(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	asOf, err := queryDate(c, "as_of")
	if err != nil {
		return err
	}

	payoff, err := h.balanceService.PayoffAmount(c.UserContext(), id, asOf)
	if err != nil {
		return h.fail("payoff_amount", err)
	}

	return c.JSON(contract.Success(constants.PayoffRetrieved, payoff))
}

func (h *Handler) ProcessPayment(c *fiber.Ctx) error {
	start := time.Now()

	id, err := paramID(c)
	if err != nil {
		return err
	}

	var handlerRequest PaymentRequest
	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Int64("transactionID", id))
		return c.JSON(responseError)
	}

	cmd := service.ProcessPaymentCommand{
		TransactionID:  id,
		Amount:         handlerRequest.Amount,
		Discount:       handlerRequest.Discount,
		DiscountReason: handlerRequest.DiscountReason,
		ApprovalPIN:    handlerRequest.ApprovalPIN,
		ReceivedBy:     middleware.Staff(c),
	}

	payment, err := h.paymentService.ProcessPayment(c.UserContext(), cmd)
	if err != nil {
		return h.fail("process_payment", err)
	}

	h.metrics.RecordPayment(payment.PaymentAmount, payment.BalanceAfterPayment <= 0)

	h.logger.Info("Payment processed",
		zap.Int64("transactionID", id),
		zap.Int64("paymentID", payment.ID),
		zap.Int64("amount", payment.PaymentAmount),
		zap.Duration("duration", time.Since(start)))

	return c.Status(fiber.StatusCreated).JSON(contract.Success(constants.PaymentProcessed, NewPaymentResponse(payment)))
}

func (h *Handler) ProcessExtension(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var handlerRequest ExtensionRequest
	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Int64("transactionID", id))
		return c.JSON(responseError)
	}

	cmd := service.ProcessExtensionCommand{
		TransactionID:     id,
		Months:            handlerRequest.Months,
		FeePerMonth:       handlerRequest.FeePerMonth,
		Discount:          handlerRequest.Discount,
		DiscountReason:    handlerRequest.DiscountReason,
		ApprovalPIN:       handlerRequest.ApprovalPIN,
		CollectOverdueFee: handlerRequest.CollectOverdueFee,
		ProcessedBy:       middleware.Staff(c),
	}

	extension, err := h.extensionService.ProcessExtension(c.UserContext(), cmd)
	if err != nil {
		return h.fail("process_extension", err)
	}

	h.metrics.RecordExtension(strconv.Itoa(extension.ExtensionMonths))

	return c.Status(fiber.StatusCreated).JSON(contract.Success(constants.ExtensionProcessed, NewExtensionResponse(extension)))
}

func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var handlerRequest StatusRequest
	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		return c.JSON(responseError)
	}

	txn, err := h.statusService.UpdateStatus(c.UserContext(), service.UpdateStatusCommand{
		TransactionID: id,
		Status:        model.Status(handlerRequest.Status),
		Reason:        handlerRequest.Reason,
		StaffMember:   middleware.Staff(c),
	})
	if err != nil {
		return h.fail("update_status", err)
	}

	h.metrics.RecordStatusChange(txn.Status.String())

	return c.JSON(contract.Success(constants.StatusUpdated, NewTransactionResponse(txn)))
}

func (h *Handler) SetOverdueFee(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var handlerRequest OverdueFeeRequest
	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Any("request", handlerRequest))
		return c.JSON(responseError)
	}

	txn, err := h.transactionService.SetOverdueFee(c.UserContext(), service.SetOverdueFeeCommand{
		TransactionID: id,
		Amount:        handlerRequest.Amount,
		Reason:        handlerRequest.Reason,
		StaffMember:   middleware.Staff(c),
	})
	if err != nil {
		return h.fail("set_overdue_fee", err)
	}

	return c.JSON(contract.Success(constants.OverdueFeeUpdated, NewTransactionResponse(txn)))
}

func (h *Handler) VoidTransaction(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var handlerRequest ApprovedRequest
	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Int64("transactionID", id))
		return c.JSON(responseError)
	}

	txn, err := h.statusService.VoidTransaction(c.UserContext(), service.VoidTransactionCommand{
		TransactionID: id,
		Reason:        handlerRequest.Reason,
		ApprovalPIN:   handlerRequest.ApprovalPIN,
		StaffMember:   middleware.Staff(c),
	})
	if err != nil {
		return h.fail("void_transaction", err)
	}

	h.metrics.RecordStatusChange(txn.Status.String())

	return c.JSON(contract.Success(constants.TransactionVoided, NewTransactionResponse(txn)))
}

func (h *Handler) CancelTransaction(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var handlerRequest CancelRequest
	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Int64("transactionID", id))
		return c.JSON(responseError)
	}

	txn, err := h.statusService.CancelTransaction(c.UserContext(), service.CancelTransactionCommand{
		TransactionID: id,
		Reason:        handlerRequest.Reason,
		StaffMember:   middleware.Staff(c),
	})
	if err != nil {
		return h.fail("cancel_transaction", err)
	}

	h.metrics.RecordStatusChange(txn.Status.String())

	return c.JSON(contract.Success(constants.TransactionCanceled, NewTransactionResponse(txn)))
}

func (h *Handler) ListPayments(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	payments, err := h.transactionService.ListPayments(c.UserContext(), id, c.QueryBool("include_voided"))
	if err != nil {
		return h.fail("list_payments", err)
	}

	return c.JSON(contract.Success(constants.PaymentsRetrieved, NewPaymentResponses(payments)))
}

func (h *Handler) ListExtensions(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	extensions, err := h.transactionService.ListExtensions(c.UserContext(), id, c.QueryBool("include_cancelled"))
	if err != nil {
		return h.fail("list_extensions", err)
	}

	return c.JSON(contract.Success(constants.ExtensionsRetrieved, NewExtensionResponses(extensions)))
}

func (h *Handler) VoidPayment(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var handlerRequest ApprovedRequest
	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Int64("paymentID", id))
		return c.JSON(responseError)
	}

	payment, err := h.reversalService.VoidPayment(c.UserContext(), service.VoidPaymentCommand{
		PaymentID:   id,
		Reason:      handlerRequest.Reason,
		ApprovalPIN: handlerRequest.ApprovalPIN,
		StaffMember: middleware.Staff(c),
	})
	if err != nil {
		return h.fail("void_payment", err)
	}

	h.metrics.RecordReversal("payment_void")

	return c.JSON(contract.Success(constants.PaymentVoided, NewPaymentResponse(payment)))
}

func (h *Handler) CancelExtension(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var handlerRequest ApprovedRequest
	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Error("Error Validator", zap.Int64("extensionID", id))
		return c.JSON(responseError)
	}

	extension, err := h.reversalService.CancelExtension(c.UserContext(), service.CancelExtensionCommand{
		ExtensionID: id,
		Reason:      handlerRequest.Reason,
		ApprovalPIN: handlerRequest.ApprovalPIN,
		StaffMember: middleware.Staff(c),
	})
	if err != nil {
		return h.fail("cancel_extension", err)
	}

	h.metrics.RecordReversal("extension_cancel")

	return c.JSON(contract.Success(constants.ExtensionCancelled, NewExtensionResponse(extension)))
}

// fail counts the error against operation and hands it to the error handler.
func (h *Handler) fail(operation string, err error) error {
	code := constants.ErrCodeInternalError
	var serviceErr service.Error
	if errors.As(err, &serviceErr) {
		code = serviceErr.Code
	}

	h.metrics.RecordOperationError(operation, code)
	return err
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id must be a positive integer")
	}
	return id, nil
}

func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	value := c.Query(key)
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, key+" must be YYYY-MM-DD")
	}
	return &t, nil
}
