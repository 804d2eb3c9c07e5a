// Copyright © 2026 The EEMS2-Go Authors
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package quadrature

// The abscissae and weights below are the generalized Gauss-Laguerre
// quadrature nodes (alpha = 1) for the weight function x*e^{-x} on
// [0, ∞), so the weights sum to 1; transcribed
// verbatim (spec.md §4.3 requires embedding them exactly rather than
// computing them at runtime).

var laguerre30X = []float64{
	0.118440697736960550688, 0.3973475034735802657556, 0.8365549141880933313119, 1.437175158191620443607,
	2.200789508440616292336, 3.129448303166859096349, 4.225699164493802071261, 5.492626704368934083587,
	6.933903364122364597039, 8.553853192793023779194, 10.35753137020864105106, 12.35082332811269876439,
	14.54056869943518703492, 16.93471724415800802837, 19.54252664684054185266, 22.37481610233449499411,
	25.44429563058376261798, 28.76600031447167014762, 32.35787326932856805551, 36.24156497875364752439,
	40.44355691460364227197, 44.99678841355200250088, 49.94309754094208987181, 55.33704611950810443499,
	61.25224904369593075136, 67.79260716731075303985, 75.11420274687672563149, 83.47405073153149030595,
	93.36359463048878316735, 106.0462505962874034422,
}

var laguerre30W = []float64{
	0.02093564741472521761, 0.09585049298017654367, 0.18833296435057945936, 0.23281944819987904471,
	0.2060782293528492151, 0.138528960450616358, 0.07293919110208096649, 0.030605607903988887905,
	0.010333948458420042431, 0.002821608083735993584, 6.2402663742264620427E-4, 1.1168849922460852198E-4,
	1.6129719270580565631E-5, 1.87044426274856472768E-6, 1.72995513372709914535E-7, 1.26506996496773906645E-8,
	7.2352574135703022224E-10, 3.19320138447436406004E-11, 1.069761647687436460972E-12, 2.66597906070505518515E-14,
	4.82019019925788439097E-16, 6.12740480626441608041E-18, 5.26125812567892365789E-20, 2.89562589607893296815E-22,
	9.51695437836864011982E-25, 1.69046847745875738033E-27, 1.39738002075239812243E-30, 4.20697826929603166432E-34,
	2.89826026866498969507E-38, 1.411587124593531584E-43,
}

var laguerre50X = []float64{
	0.07197890982430907685, 0.2413621356214323113832, 0.50777161206496736682,
	0.87144100848215091489, 1.3327153593876555612, 1.89203857575589673578,
	2.54995389165696269159, 3.30710638809426104509, 4.1642464309382815239,
	5.1222338489683650003, 6.1820428555624776171, 7.3447677682201374241,
	8.611629605039126607, 9.9839836572644003588, 11.4633281577394397878,
	13.0513141887293622298, 14.7497570005632491357, 16.5606489462107181103,
	18.4861742778364391121, 20.5287261015344429523, 22.6909258483688038223,
	24.97564569685792480173, 27.3860344785262187279, 29.92554771997283930857,
	32.59798262998117745422, 35.40751903929353023831, 38.35876755865307164698,
	41.4568265582708885324, 44.7073500182295270902, 48.11662889629256334459,
	51.6916894678465181416, 55.4404132017820128574, 59.37168428037916420825,
	63.49557305617946339417, 67.82356688527364443624, 72.36886439711898866969,
	77.14675619634162666911, 82.17512565948067597586, 87.4751203582245020515,
	93.0720721704444912416, 98.99679073227190311995, 105.2874371482835905836,
	111.9923375735336617652, 119.1743972669017647382, 126.91841438735756732,
	135.344080011584273835, 144.6313615494928725149, 155.0771275144866916574,
	167.2505316308244871017, 182.620207348251479189,
}

var laguerre50W = []float64{
	0.008098150669659729617, 0.04130873125538665997, 0.09625940978218537466,
	0.1503491696588344311, 0.17934986299937562831, 0.173581394953721460356,
	0.140856655908618615123, 0.097739526671480248591, 0.0587261120368546837416,
	0.030808796814653968376, 0.014192143542695654478, 0.0057625101944473758948,
	0.0020676112211018121615, 6.566117266315217618E-4, 1.84713846428817139761E-4,
	4.6041662947613873147E-5, 1.016612790318865366769E-5, 1.9870817337963512747E-6,
	3.4344907131572547167E-7, 5.2416191882540332129E-8, 7.050822455756935318E-9,
	8.3415284815468702479E-10, 8.6573754732312158465E-11, 7.8596173841489468557E-12,
	6.2209642223163649024E-13, 4.2769613995502895646E-14, 2.5433779837237564877E-15,
	1.302075024421022199E-16, 5.7083496285476396191E-18, 2.13034598442665506488E-19,
	6.72273042229833935E-21, 1.7803851060592980154E-22, 3.9231584139344725937E-24,
	7.1232728017092643659E-26, 1.05390989562966620855E-27, 1.25438816254046964E-29,
	1.1832996034202271289E-31, 8.693916313933935085E-34, 4.8733576082223977928E-36,
	2.0332444973728568667E-38, 6.12678969991989233E-41, 1.28463695773429860451E-43,
	1.787969839412486007E-46, 1.55365992711589439292E-49, 7.761542881245283525E-53,
	1.984698518925299219E-56, 2.18270822517498151914E-60, 7.7576333601861023782E-65,
	5.1724748561078432042E-70, 1.6224693284923917835E-76,
}
